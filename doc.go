// Package grabbieldb implements the content database tooling behind two small
// HTTP servers: a relational table browser and a media upload manager.
//
// Requests are framed straight off the socket by the rawhttp package and
// routed by the http package. This package holds the parts in between:
//
//   - MediaService: spools uploaded images and videos, pushes them to object
//     storage and records them in the images and videos tables
//   - TableBrowser: introspects tables and performs row CRUD and export
//   - MediaRepo / SchemaRepo: persistence interfaces (SQLite, PostgreSQL)
//   - Spool / ObjectStore: local temp storage and the remote bucket CLI
//
// # Example Usage
//
//	media, err := grabbieldb.NewMediaService(db.MediaRepo(), spool, store, grabbieldb.MediaConfig{
//	    PublicBucket:  "gs://grabbiel-media-public",
//	    PrivateBucket: "gs://grabbiel-media",
//	    PublicURLBase: "https://storage.googleapis.com/grabbiel-media-public",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	img, err := media.UploadImage(ctx, grabbieldb.ImageUpload{
//	    Filename: "cover.png",
//	    Content:  data,
//	    Storage:  grabbieldb.StoragePublic,
//	})
//
// See the database package for the persistence backends and the http package
// for the routes.
package grabbieldb
