package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/emiliopalmerini/despertar/internal/domain"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify quiz answers into a profile and plan shape",
	Long: `Classify quiz answers into a profile and derive the plan volume, objective
direction and rhythm plan sent to the plan API.

Answers come from a YAML or JSON file, flags, or both (flags win). Values
must match the quiz options exactly.

Examples:
  despertar classify --file answers.yaml --explain
  despertar classify --rhythm "Correria total" --time "5 a 10 minutos" \
    --emotion "Me cobro demais" --emotion "Estou pronto(a) para mudar"`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

var (
	classifyFile    string
	classifyAnswers domain.QuizAnswers
	classifyExplain bool
	classifyJSON    bool
)

func init() {
	f := classifyCmd.Flags()
	f.StringVarP(&classifyFile, "file", "f", "", "YAML or JSON file with the answers")
	f.StringVar(&classifyAnswers.Name, "name", "", "Name")
	f.StringVar(&classifyAnswers.Age, "age", "", "Age")
	f.StringVar(&classifyAnswers.Intention, "intention", "", "Intention option")
	f.StringVar(&classifyAnswers.Rhythm, "rhythm", "", "Rhythm option")
	f.StringVar(&classifyAnswers.Movement, "movement", "", "Movement option")
	f.StringArrayVar(&classifyAnswers.Emotions, "emotion", nil, "Emotion option (repeatable)")
	f.StringVar(&classifyAnswers.Nutrition, "nutrition", "", "Nutrition option")
	f.StringVar(&classifyAnswers.Time, "time", "", "Time option")
	f.BoolVar(&classifyExplain, "explain", false, "Show the score per profile and the rules that fired")
	f.BoolVar(&classifyJSON, "json", false, "Print the result as JSON")
}

type classifyResult struct {
	domain.Personalization
	Scores         domain.Scores  `json:"scores"`
	ProfileMessage domain.Message `json:"profileMessage"`
	VolumeMessage  domain.Message `json:"volumeMessage"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	answers, err := loadAnswers(cmd)
	if err != nil {
		return err
	}
	if err := answers.Validate(); err != nil {
		return err
	}

	p := domain.Personalize(answers)
	result := classifyResult{
		Personalization: p,
		Scores:          domain.Score(answers),
		ProfileMessage:  domain.ProfileMessage(p.Profile),
		VolumeMessage:   domain.PlanVolumeMessage(p.PlanVolume),
	}

	out := cmd.OutOrStdout()
	if classifyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Profile:\t%s\t%s %s\n", p.Profile, result.ProfileMessage.Emoji, result.ProfileMessage.Title)
	fmt.Fprintf(w, "Plan volume:\t%s\t%s %s\n", p.PlanVolume, result.VolumeMessage.Emoji, result.VolumeMessage.Title)
	fmt.Fprintf(w, "Objective:\t%s\n", p.ObjectiveDirection)
	fmt.Fprintf(w, "Mind:\t%s\n", p.RhythmPlan.Mind)
	fmt.Fprintf(w, "Body:\t%s\n", p.RhythmPlan.Body)
	if err := w.Flush(); err != nil {
		return err
	}

	if classifyExplain {
		explainScores(out, answers, result.Scores)
	}
	return nil
}

func explainScores(out io.Writer, a domain.QuizAnswers, scores domain.Scores) {
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tPROFILE\tPOINTS")
	for _, r := range domain.ClassificationRules {
		if n := r.Matches(a); n > 0 {
			fmt.Fprintf(w, "%s\t%s\t+%d\n", r.Name, r.Profile, r.Points*n)
		}
	}
	fmt.Fprintln(w, "\t\t")
	for _, p := range []domain.UserProfile{domain.ProfileLight, domain.ProfileModerate, domain.ProfileActive} {
		fmt.Fprintf(w, "total\t%s\t%d\n", p, scores[p])
	}
	_ = w.Flush()
}

// loadAnswers reads the answers file, then applies any flag that was set.
func loadAnswers(cmd *cobra.Command) (domain.QuizAnswers, error) {
	var a domain.QuizAnswers
	if classifyFile != "" {
		raw, err := os.ReadFile(classifyFile)
		if err != nil {
			return a, fmt.Errorf("failed to read answers: %w", err)
		}
		// JSON is valid YAML.
		if err := yaml.Unmarshal(raw, &a); err != nil {
			return a, fmt.Errorf("failed to parse answers: %w", err)
		}
	}

	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("name", &a.Name, classifyAnswers.Name)
	set("age", &a.Age, classifyAnswers.Age)
	set("intention", &a.Intention, classifyAnswers.Intention)
	set("rhythm", &a.Rhythm, classifyAnswers.Rhythm)
	set("movement", &a.Movement, classifyAnswers.Movement)
	set("nutrition", &a.Nutrition, classifyAnswers.Nutrition)
	set("time", &a.Time, classifyAnswers.Time)
	if flags.Changed("emotion") {
		a.Emotions = classifyAnswers.Emotions
	}
	return a, nil
}
