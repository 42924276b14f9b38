package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/GopalOmotec/echolearn-updated/internal/bank"
	"github.com/GopalOmotec/echolearn-updated/internal/llm"
	"github.com/GopalOmotec/echolearn-updated/internal/questiongen"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage the question bank",
}

var bankImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import questions from a JSON array",
	Long: "Import questions from a JSON array of objects with question, answer and either " +
		"difficulty (1-100) or level. Entries with an existing id replace the stored question.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qs, err := readQuestions(args[0])
		if err != nil {
			return err
		}

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		repo := st.QuestionRepo()
		if replace, _ := cmd.Flags().GetBool("replace"); replace {
			if err := repo.Clear(cmd.Context()); err != nil {
				return err
			}
		}
		ids, err := repo.Add(cmd.Context(), qs...)
		if err != nil {
			return fmt.Errorf("import questions: %w", err)
		}
		total, err := repo.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d questions (%d in bank).\n", len(ids), total)
		return nil
	},
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bank questions matching a filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		qs, err := st.QuestionRepo().Candidates(cmd.Context(), filterFromFlags(cmd))
		if err != nil {
			return err
		}
		if len(qs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No questions found.")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-10s  %-6s  %-12s  %-14s  %-16s  %s\n",
			"ID", "Diff", "Level", "Subject", "Topic", "Question")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, q := range qs {
			level := q.Level
			if q.Difficulty != nil && level == "" {
				level = bank.LevelFor(*q.Difficulty)
			}
			fmt.Fprintf(out, "%-10s  %-6g  %-12s  %-14s  %-16s  %s\n",
				truncate(q.ID, 10), q.EffectiveDifficulty(), level,
				truncate(q.Subject, 14), truncate(q.Topic, 16), truncate(q.Text, 60))
		}
		return nil
	},
}

var bankGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a 1-20 question pool with the configured LLM",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		subject, _ := cmd.Flags().GetString("subject")
		grade, _ := cmd.Flags().GetString("grade")
		sourcePath, _ := cmd.Flags().GetString("source")
		outPath, _ := cmd.Flags().GetString("out")
		priorPath, _ := cmd.Flags().GetString("prior")

		in := questiongen.Input{Topic: topic, Subject: subject, Grade: grade}
		if sourcePath != "" {
			b, err := os.ReadFile(sourcePath)
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}
			in.Source = string(b)
		}
		if priorPath != "" {
			prior, err := bank.LoadFile(priorPath)
			if err != nil {
				return err
			}
			for _, q := range prior {
				in.Prior = append(in.Prior, q.Text)
			}
		}

		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		llmCfg, err := cfg.LLMConfig()
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		provider, err := llm.NewProvider(cmd.Context(), llmCfg, st.EventRepo())
		if err != nil {
			return err
		}

		start := time.Now()
		res, err := questiongen.New(provider, cfg.GeneratorConfig()).Generate(cmd.Context(), in)
		if res != nil {
			for _, r := range res.Rejected {
				fmt.Fprintf(cmd.ErrOrStderr(), "rejected %q: %v\n", truncate(r.Text, 60), r.Reason)
			}
		}
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			w = f
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Questions); err != nil {
			return fmt.Errorf("write pool: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Generated %d questions with %s/%s in %s (%d tokens).\n",
			len(res.Questions), provider.Name(), provider.ModelID(),
			time.Since(start).Round(time.Millisecond), res.Usage.InputTokens+res.Usage.OutputTokens)
		return nil
	},
}

// readQuestions decodes a JSON array without assigning positional IDs so
// the bank can number unlabelled entries itself.
func readQuestions(path string) ([]bank.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question file: %w", err)
	}
	defer f.Close()

	var qs []bank.Question
	if err := json.NewDecoder(f).Decode(&qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return qs, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("subject", "", "Only questions of this subject")
	cmd.Flags().String("topic", "", "Only questions of this topic")
	cmd.Flags().String("grade", "", "Only questions of this grade")
	cmd.Flags().Float64("min", 1, "Minimum bank difficulty (1-100)")
	cmd.Flags().Float64("max", 100, "Maximum bank difficulty (1-100)")
	cmd.Flags().Int("limit", 0, "Maximum number of questions (0 = no limit)")
}

func filterFromFlags(cmd *cobra.Command) bank.Filter {
	f := bank.DefaultFilter()
	f.Subject, _ = cmd.Flags().GetString("subject")
	f.Topic, _ = cmd.Flags().GetString("topic")
	f.Grade, _ = cmd.Flags().GetString("grade")
	f.MinDifficulty, _ = cmd.Flags().GetFloat64("min")
	f.MaxDifficulty, _ = cmd.Flags().GetFloat64("max")
	f.Limit, _ = cmd.Flags().GetInt("limit")
	return f.Normalize()
}

func init() {
	bankImportCmd.Flags().Bool("replace", false, "Clear the bank before importing")

	addFilterFlags(bankListCmd)

	bankGenerateCmd.Flags().String("topic", "", "Topic to generate questions about")
	bankGenerateCmd.Flags().String("subject", "", "Subject label copied onto every question")
	bankGenerateCmd.Flags().String("grade", "", "Grade label copied onto every question")
	bankGenerateCmd.Flags().String("source", "", "Text file with study material to draw questions from")
	bankGenerateCmd.Flags().String("prior", "", "JSON pool whose questions must not be repeated")
	bankGenerateCmd.Flags().StringP("out", "o", "", "Write the pool to this file instead of stdout")
	_ = bankGenerateCmd.MarkFlagRequired("topic")

	bankCmd.AddCommand(bankImportCmd)
	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankGenerateCmd)
}
