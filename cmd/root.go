package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "facecam",
	Short: "Webcam face recognition in the browser",
	Long: `Facecam turns a V4L2 webcam into a face recognition page: it streams
the camera to the browser, draws boxes around detected faces, lets you
label a face while it is in view, and then recognizes labeled faces
live against the gallery.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
