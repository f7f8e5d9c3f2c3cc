package cmd

import (
	"fmt"

	"github.com/jvrabec/facecam/internal/config"
	"github.com/jvrabec/facecam/internal/models"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Download the pretrained face models",
	Long: `Download the dlib face detection and recognition models.
The files go into the models directory (MODELS_DIR, default ./models)
and are required before 'facecam serve' can start. Files that already
exist are kept, so the command is safe to re-run.`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().String("dir", "", "Directory for the model files (overrides MODELS_DIR)")
	modelsCmd.Flags().Bool("verify", false, "Only check that the model files are present")
}

func runModels(cmd *cobra.Command, args []string) error {
	dir := mustGetString(cmd, "dir")
	if dir == "" {
		dir = config.Load().Models.Dir
	}

	if mustGetBool(cmd, "verify") {
		if err := models.Verify(dir); err != nil {
			return err
		}
		fmt.Printf("All model files present in %s\n", dir)
		return nil
	}

	if err := models.Download(cmd.Context(), dir); err != nil {
		return fmt.Errorf("downloading models: %w", err)
	}

	fmt.Printf("Models ready in %s\n", dir)
	return nil
}
