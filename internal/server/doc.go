// Package server provides HTTP routing, middleware and the JSON API behind `photobook serve`.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Logging] and [Recover] are the stock middleware.
//
// The [BasicRouter] implementation uses [http.ServeMux] patterns of the form "METHOD /path/{wildcard}".
//
// # API
//
// [API] exposes the book and its storage:
//
//	GET  /api/health
//	GET  /api/categories
//	GET  /api/photos?category=sleepy&page=0
//	POST /api/photos              multipart field "file"
//	GET  /api/objects             raw storage listing
//	PUT  /api/objects/{key}       raw storage upload
//	GET  /api/book                shared session snapshot
//	POST /api/book/{open|close|next|prev}
//	POST /api/book/category/{id}
//
// Validation failures answer 400, storage failures 502. The storage credentials stay on the server;
// the proxy backend in package services is the matching client for the /api/objects routes.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [ObjectHandler] serves the local object store at /objects/{key}.
package server
