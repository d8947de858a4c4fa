// Package api provides the HTTP client for the platform REST backend.
//
// Every response is wrapped in an envelope:
//
//	{"code": 200, "status": "success", "message": "...", "data": [...]}
//
// Reads succeed when data is present. Writes succeed on an HTTP status below
// 400 when the envelope carries no "Error" field and its code is absent or
// 2xx (or status is "success"). Failures surface as *Error with the
// backend's message so the console can show it verbatim.
//
// Client implements the generic verbs (Get, Post, Put, Delete, Upload).
// Services wraps them into typed endpoint groups; the collection services
// satisfy resource.Backend so screens drive them through a
// resource.Controller.
//
// Requests carry Accept, User-Agent, a fresh X-Request-ID and, when the
// session holds one, "Authorization: Bearer <token>".
package api
