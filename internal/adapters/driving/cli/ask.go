package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

var (
	askFiles []string
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about PDF documents",
	Long: `Uploads the given PDF files into a fresh session and answers the
question from their content. The answer cites the documents and pages
it was grounded in; when the documents do not contain the answer, it
says so instead of inventing one.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringArrayVarP(&askFiles, "file", "f", nil, "PDF file to upload (repeatable)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if len(askFiles) == 0 {
		return errors.New("at least one --file is required")
	}

	svcs, err := ensureServices()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	uploads := make([]driving.Upload, 0, len(askFiles))
	for _, path := range askFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		uploads = append(uploads, driving.Upload{
			Filename: filepath.Base(path),
			Data:     data,
		})
	}

	session, err := svcs.Sessions.Create(ctx)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	results, err := svcs.Ingest.Upload(ctx, session.ID, uploads)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	indexed := 0
	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", result.Document.Filename, result.Err)
			continue
		}
		indexed++
	}
	if indexed == 0 {
		return errors.New("no documents could be processed")
	}

	answer, err := svcs.QA.Ask(ctx, session.ID, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	cmd.Println(answer.Text)

	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, citation := range answer.Citations {
			if citation.Page > 0 {
				cmd.Printf("  - %s, page %d\n", citation.Filename, citation.Page)
			} else {
				cmd.Printf("  - %s\n", citation.Filename)
			}
		}
	}
	return nil
}
