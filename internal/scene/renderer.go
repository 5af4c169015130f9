package scene

// Renderer is the rendering collaborator. The lifecycle controller only ever
// flips declarative state and calls these; how output reaches the screen is
// the renderer's problem.
type Renderer interface {
	// ShowOutput reveals the render output surface. May recreate the
	// underlying surfaces, which is why corrective passes poll afterwards.
	ShowOutput()

	// HideOutput hides the render output surface.
	HideOutput()

	// RenderOnce forces a single frame. Used to flush a blank frame before
	// hiding output so the last tracked frame does not linger.
	RenderOnce()

	// Apply pushes the current declarative presentation state of the tree
	// rooted at root to the backend.
	Apply(root *Node)
}
