package download

// Package download implements the job pipeline built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). The Service owns the in-memory job
// store and starts one Runner goroutine per job, which drives the external
// downloader and records its progress.
