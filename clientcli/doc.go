// Package clientcli provides a client library for the grabbieldb media
// server.
//
// It uploads images and videos as multipart forms, deletes rows by id, and
// lists recent media through the JSON API. Profiles in a YAML file manage
// connections to several servers.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{
//		Endpoint: "http://127.0.0.1:8889",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.UploadImage(ctx, clientcli.ImageUploadOptions{
//		LocalPath: "./cover.png",
//		ContentID: 12,
//		ImageType: "thumbnail",
//	})
//
// The media server answers an accepted upload with 303 See Other whether or
// not the object store copy succeeded, so the client looks the new row up in
// the listing afterwards. UploadResult.Err is ErrNotConfirmed when it is
// missing.
//
// # Profile Configuration
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	profile, err := configFile.GetProfile("production")
//	cfg := clientcli.ConfigFromProfile(profile)
//
// Environment variables:
//   - GRABBIELDB_ENDPOINT: media server URL
//   - GRABBIELDB_STORAGE: default storage type (public or private)
//   - GRABBIELDB_PROFILE: profile name to use
//   - GRABBIELDB_CLI_CONFIG: config file path
package clientcli
