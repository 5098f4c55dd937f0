package model

// Package model defines the download job record, its status enum and the
// playlist listing. Jobs are plain values so copies can be handed out freely.
