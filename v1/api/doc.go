// Package api serves the catalog over HTTP.
//
// Routes:
//
//	GET    /collections                               list collection names
//	POST   /collections, /create_collection           {name, vector_size}
//	GET    /collections/{name}                        size, distance, points
//	DELETE /collections/{name}
//	POST   /collections/{name}/items                  {vector, payload}
//	GET    /collections/{name}/items/{document_id}
//	DELETE /collections/{name}/items/{document_id}
//	POST   /collections/{name}/search                 {vector | query, top_k, filter}
//	GET    /healthz
//
// Every response is JSON with a "status" field, "ok" on success. Failures
// carry the lower-cased HTTP status text and a message:
//
//	400  collection already exists, payload rule violated
//	404  collection or document not found
//	422  malformed body, wrong field types, sizes out of range,
//	     vector length not matching the collection, malformed dates
//	500  anything else; the message never contains backend details
//
// Request bodies are checked structurally before the catalog is called,
// so a rejected request never writes to the index.
package api
