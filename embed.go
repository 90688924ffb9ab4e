package rango

import "embed"

// EmbeddedAssets contains static assets shipped with the engine:
// rango.js (like button and category suggestion AJAX).
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
