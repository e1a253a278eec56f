package embedding

import "context"

// Embedder turns texts into fixed-length vectors, one per text and in
// input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the length of every vector returned by Embed.
	Dimension() int
}
