package main

import (
	"fmt"
	"os"

	"github.com/knights-analytics/hugot"
	"github.com/spf13/cobra"
)

func downloadModelCmd() *cobra.Command {
	var (
		model    string
		onnxFile string
	)

	cmd := &cobra.Command{
		Use:   "download-model [dest]",
		Short: "Download the local sentiment model",
		Long: `Download the local sentiment model from Hugging Face.

The model defaults to SENTIMENT_MODEL and the destination to
SENTIMENT_MODEL_DIR. The model is stored in a subdirectory of the
destination, which is where the local engine looks for it. Use
infrastructure/provider/models as the destination to compile the model
into the binary with -tags embed_model.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			dest := cfg.SentimentModelDir()
			if len(args) == 1 {
				dest = args[0]
			}
			if model == "" {
				model = cfg.SentimentModel()
			}

			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("create model directory: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Downloading %s to %s...\n", model, dest)

			opts := hugot.NewDownloadOptions()
			opts.OnnxFilePath = onnxFile
			modelPath, err := hugot.DownloadModel(model, dest, opts)
			if err != nil {
				return fmt.Errorf("download model: %w", err)
			}

			fmt.Fprintf(out, "Model downloaded to %s\n", modelPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Hugging Face model name (default: SENTIMENT_MODEL)")
	cmd.Flags().StringVar(&onnxFile, "onnx-file", "onnx/model.onnx", "Path of the ONNX file inside the model repository")

	return cmd
}
