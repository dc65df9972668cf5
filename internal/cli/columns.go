package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	metaform "github.com/dnavi/metaform"
	"github.com/dnavi/metaform/pkg/schema"
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Inspect and extend the metadata columns",
}

var columnsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the baseline metadata columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := metaform.New(cmd.Context())
		if err != nil {
			return err
		}
		defer form.Close()

		for _, col := range form.Registry().Columns() {
			typ := string(col.Type)
			if typ == "" {
				typ = "text"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", col.Name, typ)
		}
		return nil
	},
}

var columnsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Interactively add a column and preview the resulting table",
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := metaform.New(cmd.Context())
		if err != nil {
			return err
		}
		defer form.Close()

		name, typ, err := promptColumn(cmd.Context())
		if err != nil {
			return err
		}
		if !form.AddColumn(name, typ) {
			return fmt.Errorf("column %q already exists", name)
		}

		preview := false
		if err := survey.AskOne(&survey.Confirm{
			Message: "Preview the rendered table?",
			Default: true,
		}, &preview); err != nil {
			return err
		}
		if preview {
			form.AddRow()
			fmt.Fprintln(cmd.OutOrStdout(), string(form.RenderTable()))
		}
		return nil
	},
}

func promptColumn(ctx context.Context) (string, schema.ColumnType, error) {
	if err := ctx.Err(); err != nil {
		return "", schema.TypeText, err
	}

	var name string
	if err := survey.AskOne(&survey.Input{
		Message: "Column name:",
		Help:    "Display name as it should appear in the table header.",
	}, &name, survey.WithValidator(survey.Required)); err != nil {
		return "", schema.TypeText, err
	}
	name = strings.TrimSpace(name)
	if schema.IsReserved(name) {
		return "", schema.TypeText, errors.New("column name is reserved")
	}

	choices := []string{"text"}
	for _, t := range []schema.ColumnType{
		schema.TypeBool, schema.TypePurpose, schema.TypeAssay,
		schema.TypePatho, schema.TypeStage, schema.TypeStatus,
		schema.TypeOpt, schema.TypeEquivoc, schema.TypeGermline,
	} {
		choices = append(choices, string(t))
	}

	var picked string
	if err := survey.AskOne(&survey.Select{
		Message: "Semantic type:",
		Options: choices,
		Default: "text",
		Help:    "Fixed-choice types render a selector; text renders a free input.",
	}, &picked); err != nil {
		return "", schema.TypeText, err
	}
	if picked == "text" {
		picked = ""
	}
	return name, schema.ParseType(picked), nil
}

func init() {
	columnsCmd.AddCommand(columnsListCmd)
	columnsCmd.AddCommand(columnsAddCmd)
	rootCmd.AddCommand(columnsCmd)
}
