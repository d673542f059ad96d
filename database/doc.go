// Package database connects to the content database behind the admin and
// media servers.
//
// Two backends are supported:
//
//   - SQLite through modernc.org/sqlite, the default ("content.db")
//   - PostgreSQL through a pgx connection pool
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "content.db",
//	    Tables: grabbieldb.Tables{Images: "images", Videos: "videos"},
//	}
//
//	db, err := database.Open(ctx, cfg, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
// MediaRepo serves the upload manager. SchemaRepo serves the table browser
// and works on any table in the database.
package database
