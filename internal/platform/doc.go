package platform

// Package platform contains OS and site integration glue: URL classification
// for the supported video sites and the filesystem helpers used to name and
// locate downloaded artifacts. Playlist listing goes through the ytdlp library.
