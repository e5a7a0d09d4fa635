// Package renderer draws terminal sessions onto a tcell screen.
//
// The renderer is split in two:
//
//	┌─────────────────────────────────────────┐
//	│  Viewer: event loop, resize, quit keys  │
//	├─────────────────────────────────────────┤
//	│  Painter: grid cells → tcell content    │
//	├─────────────────────────────────────────┤
//	│  tcell.Screen (terminal or simulation)  │
//	└─────────────────────────────────────────┘
//
// Painter applies the change lists a session reports, so only cells that
// moved since the last Show are touched. A full Paint is used on resize.
//
// Usage:
//
//	screen, _ := tcell.NewScreen()
//	screen.Init()
//	v := renderer.NewViewer(screen, session)
//	go player.Play(ctx, capture, v)
//	err := v.Run(ctx)
package renderer
