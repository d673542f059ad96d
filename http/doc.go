// Package http provides the routers of the admin and media servers.
//
// The handlers run behind the raw socket server in package server, which
// frames each request itself and stores the framed request in the request
// context. Form bodies are decoded from that framed request with package
// rawhttp, so uploads never pass through mime/multipart. Handlers also work
// with a plain net/http server; they then read r.Body.
//
// # Admin
//
// AdminHandler browses any table of the content database:
//
//	GET  /, /index           table list
//	GET  /table?name=T       one page of T (100 rows)
//	GET  /insert?table=T     insert form, POST /insert
//	GET  /edit?table=T&id=K  edit form, POST /edit
//	GET  /delete?table=T&id=K
//	GET  /export?table=T&format=csv|yaml
//	GET  /api/tables/{name}  JSON page
//
// # Media
//
// MediaHandler uploads images and videos to bucket storage:
//
//	GET  /, /index                  dashboard
//	POST /upload-image, /upload-video
//	GET  /delete-image?id=N, /delete-video?id=N
//	GET  /api/images, /api/videos   JSON listings, ?limit=1..100
//
// HTML routes answer errors with short plain text pages such as
// "404 - Page not found". JSON routes answer with ErrorResponse.
package http
