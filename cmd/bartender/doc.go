// Package main implements the bartender command line. It drafts storyboards,
// builds and checks captions, synthesizes narration, renders frames, composes
// lesson videos locally, and runs the HTTP daemon in the foreground.
package main
