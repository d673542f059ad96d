package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/grabbiel/grabbieldb/clientcli"
)

var (
	imageContentID int64
	imageType      string

	videoContentID int64
	videoTitle     string
	videoDuration  int
)

var uploadImageCmd = &cobra.Command{
	Use:   "upload-image <file> [file...]",
	Short: "Upload images",
	Long: `Upload one or more images to the media server.

Each file is posted as its own form. The new rows are looked up in the
recent listing to report their ids.

Examples:
  grabbieldb-cli upload-image ./cover.png
  grabbieldb-cli upload-image -t thumbnail --content-id 12 a.jpg b.jpg
  grabbieldb-cli upload-image --storage private ./scan.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUploadImage,
}

var uploadVideoCmd = &cobra.Command{
	Use:   "upload-video <file>",
	Short: "Upload a video",
	Long: `Upload a video to the media server.

Examples:
  grabbieldb-cli upload-video ./intro.mp4
  grabbieldb-cli upload-video --title "Intro" --duration 95 ./intro.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runUploadVideo,
}

func init() {
	uploadImageCmd.Flags().Int64Var(&imageContentID, "content-id", 0, "content id the image belongs to")
	uploadImageCmd.Flags().StringVarP(&imageType, "type", "t", "", "image type: content, thumbnail or gallery")

	uploadVideoCmd.Flags().Int64Var(&videoContentID, "content-id", 0, "content id the video belongs to")
	uploadVideoCmd.Flags().StringVar(&videoTitle, "title", "", "video title (default: file name)")
	uploadVideoCmd.Flags().IntVarP(&videoDuration, "duration", "d", 0, "duration in seconds")
}

func runUploadImage(cmd *cobra.Command, args []string) error {
	client, cfg, err := getClient()
	if err != nil {
		return err
	}

	formatter := getFormatter()
	failed := false

	for _, path := range args {
		result, err := client.UploadImage(cmd.Context(), clientcli.ImageUploadOptions{
			LocalPath: path,
			ContentID: imageContentID,
			ImageType: imageType,
			Storage:   cfg.Storage,
		})
		if err != nil {
			result = clientcli.UploadResult{Kind: clientcli.KindImage, LocalPath: path, Err: err}
		}
		if result.Err != nil {
			failed = true
		}
		if err := formatter.FormatUpload(os.Stdout, result); err != nil {
			return err
		}
	}

	if failed {
		return &exitError{code: 1}
	}
	return nil
}

func runUploadVideo(cmd *cobra.Command, args []string) error {
	client, cfg, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.UploadVideo(cmd.Context(), clientcli.VideoUploadOptions{
		LocalPath: args[0],
		Title:     videoTitle,
		ContentID: videoContentID,
		Duration:  videoDuration,
		Storage:   cfg.Storage,
	})
	if err != nil {
		return err
	}

	if err := getFormatter().FormatUpload(os.Stdout, result); err != nil {
		return err
	}

	if result.Err != nil {
		return &exitError{code: 1}
	}
	return nil
}
