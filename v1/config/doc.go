// Package config loads the service configuration.
//
// Values are applied in this order, later ones winning:
//
//  1. DefaultConfig
//  2. a YAML file whose top-level keys are the section names (logger,
//     metrics, tracer, qdrant, api, embedding, ingest, ledger, rabbit,
//     kafka, minio) plus backend
//  3. a .env file, which only sets variables not already in the environment
//  4. environment variables named by the envconfig tags of each section,
//     e.g. QDRANT_ENDPOINT, EMBEDDING_PROVIDER or INGEST_BATCH_SIZE
//
// Supply exposes every section to an fx application.
package config
