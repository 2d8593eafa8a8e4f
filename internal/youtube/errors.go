package youtube

import "errors"

// ErrYtdlpNotFound indicates the yt-dlp binary is not installed or not on PATH.
var ErrYtdlpNotFound = errors.New("yt-dlp not found")

// ErrDownloadFailed indicates yt-dlp could not download or transcode the audio.
var ErrDownloadFailed = errors.New("audio download failed")
