package game

// MeshID is an opaque handle to a mesh owned by a Scene. Zero means no mesh.
type MeshID uint32

// Scene is the rendering collaborator. The core only creates, places and
// destroys meshes through it and never reads anything back.
type Scene interface {
	SetupBackground(width, height float64)
	CreatePocketMesh(radius float64) MeshID
	CreateBallMesh(radius float64) MeshID
	PlaceMesh(mesh MeshID, x, y, z float64)
	DestroyMesh(mesh MeshID)
	UpdateProgressBar(progress float64)
}

// Engine is the frame-loop collaborator.
type Engine interface {
	SetTargetFPS(fps int)
}
