package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GopalOmotec/echolearn-updated/internal/adaptive"
	"github.com/GopalOmotec/echolearn-updated/internal/bank"
	"github.com/GopalOmotec/echolearn-updated/internal/report"
	"github.com/GopalOmotec/echolearn-updated/internal/scoring"
	"github.com/GopalOmotec/echolearn-updated/internal/session"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless adaptive session with scripted scores",
	Long: "Run an adaptive session over a question pool, scoring each served question " +
		"from --scores in order. Every answer is journaled to the database.",
	Example: "  echolearn simulate --pool pool.json --scores 9,2,3,5,10 --seed 7\n" +
		"  echolearn simulate --subject Biology --scores 8,8,4",
	RunE: func(cmd *cobra.Command, args []string) error {
		scores, _ := cmd.Flags().GetIntSlice("scores")
		seed, _ := cmd.Flags().GetUint64("seed")
		poolPath, _ := cmd.Flags().GetString("pool")
		if len(scores) == 0 {
			return errors.New("--scores is required")
		}

		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		var pool []bank.Question
		if poolPath != "" {
			pool, err = bank.LoadFile(poolPath)
		} else {
			pool, err = st.QuestionRepo().Candidates(cmd.Context(), filterFromFlags(cmd))
		}
		if err != nil {
			return err
		}
		if len(pool) == 0 {
			return errors.New("question pool is empty: import questions or pass --pool")
		}

		start := cfg.Session.StartDifficulty
		if cmd.Flags().Changed("start") {
			start, _ = cmd.Flags().GetInt("start")
		}

		random := adaptive.NewRandom()
		if seed != 0 {
			random = adaptive.NewSeededRandom(seed)
		}

		logger := newLogger(cmd)
		s := session.New(pool, session.WithController(
			adaptive.WithRandom(random),
			adaptive.WithStart(start),
			adaptive.WithLogger(logger),
		))
		j := session.NewJournal(s, st.EventRepo(), st.SnapshotRepo(),
			session.WithSnapshotKeep(cfg.Session.SnapshotKeep),
			session.WithJournalLogger(logger),
		)

		ctx := cmd.Context()
		if _, _, err := j.Begin(ctx); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		oracle := scoring.NewScript(scores...)
		for !s.Done() {
			q, _, ok := s.Current()
			if !ok {
				break
			}
			score, err := oracle.Score(ctx, q, "")
			if errors.Is(err, scoring.ErrScriptExhausted) {
				break
			}
			if err != nil {
				return err
			}

			target := s.State().CurrentDifficulty
			res, err := j.Submit(ctx, score)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "#%-3d target %2d  %-8s diff %-5g score %2d  -> next target %2d\n",
				len(s.State().History), target, truncate(q.ID, 8), q.EffectiveDifficulty(),
				res.Score, res.Recommendation.TargetDifficulty)
		}

		if err := j.End(ctx); err != nil {
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprint(out, report.Render(s.Snapshot()))
		return nil
	},
}

func init() {
	simulateCmd.Flags().IntSlice("scores", nil, "Comma-separated scores (0-10) for successive questions")
	simulateCmd.Flags().Uint64("seed", 0, "Seed for difficulty jumps (0 = random)")
	simulateCmd.Flags().String("pool", "", "JSON question pool to use instead of the bank")
	simulateCmd.Flags().Int("start", adaptive.StartDifficulty, "Starting target difficulty (1-20)")
	addFilterFlags(simulateCmd)
}
