// Package qdrant implements vectordb.Index on the Qdrant vector database.
//
// QdrantClient talks to Qdrant over gRPC through the official Go SDK. It
// translates vectordb.FilterSet values into Qdrant filters, converts
// payloads in both directions and maps Qdrant errors for missing or
// duplicate collections onto vectordb.ErrCollectionNotFound and
// vectordb.ErrCollectionExists.
//
// # Basic Usage
//
//	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{
//	    Config: qdrant.FromEndpoint("localhost").WithTimeout(5 * time.Second),
//	    Logger: log,
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	var index vectordb.Index = client
//	err = index.CreateCollection(ctx, "papers", 384)
//
// Collections always use cosine distance. Upserts and deletes wait for
// the write to be applied, so reads issued afterwards observe it.
//
// # Fx Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Supply(qdrant.DefaultConfig()),
//	    qdrant.FXModule,
//	)
//
// # Configuration
//
// Config fields can be loaded from YAML or from the QDRANT_* environment
// variables (QDRANT_ENDPOINT, QDRANT_PORT, QDRANT_API_KEY, QDRANT_USE_TLS,
// QDRANT_TIMEOUT, QDRANT_CHECK_COMPATIBILITY, QDRANT_INDEX_PAYLOAD).
package qdrant
