package transform

// Renderer is the rendering engine entry point set.
type Renderer interface {
	RenderFrame()
	TranslateCanvas(dx, dy float64)
	ScaleCanvas(factor, cx, cy float64)
	InstallVectorImage(image []byte) error
}

// Resizer is implemented by renderers that track the viewport size.
type Resizer interface {
	Resize(width, height int)
}
