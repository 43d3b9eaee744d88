package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"promptpilot/internal/reputation"
)

var profileJSON bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the taste profile derived from the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()
		defer eng.Close()

		profile, err := eng.GetTasteProfile()
		if err != nil {
			return err
		}

		if profileJSON {
			return printJSON(profile)
		}

		printList("Visual styles", profile.VisualStyles)
		printList("Color palettes", profile.ColorPalettes)
		printList("Lighting", profile.Lighting)
		printList("Audio genres", profile.AudioGenres)
		printList("Moods", profile.Moods)
		printList("Avoid", profile.AvoidKeywords)

		if len(profile.FrequentKeywords) > 0 {
			fmt.Println("Frequent keywords:")
			kws := make([]string, 0, len(profile.FrequentKeywords))
			for kw := range profile.FrequentKeywords {
				kws = append(kws, kw)
			}
			sort.Slice(kws, func(i, j int) bool {
				if profile.FrequentKeywords[kws[i]] != profile.FrequentKeywords[kws[j]] {
					return profile.FrequentKeywords[kws[i]] > profile.FrequentKeywords[kws[j]]
				}
				return kws[i] < kws[j]
			})
			for _, kw := range kws {
				fmt.Printf("  %-24s %d\n", kw, profile.FrequentKeywords[kw])
			}
		}
		return nil
	},
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Dump the raw keyword ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()
		defer eng.Close()

		prefs, err := eng.GetDeepPreferences()
		if err != nil {
			return err
		}

		if profileJSON {
			return printJSON(prefs)
		}

		cats := make([]string, 0, len(prefs.KeywordScores))
		for cat := range prefs.KeywordScores {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			fmt.Printf("[%s]\n", cat)
			kws := make([]string, 0, len(prefs.KeywordScores[cat]))
			for kw := range prefs.KeywordScores[cat] {
				kws = append(kws, kw)
			}
			sort.Strings(kws)
			for _, kw := range kws {
				ks := prefs.KeywordScores[cat][kw]
				fmt.Printf("  %-24s %+d  (updated %s)\n", kw, ks.Score, ks.LastUpdated.Format("2006-01-02"))
			}
		}

		if len(prefs.ReasonCounts) > 0 {
			fmt.Println("Rejection reasons (most frequent first):")
			reasons, err := st.TopReasons(0)
			if err != nil {
				return err
			}
			for _, r := range reasons {
				fmt.Printf("  %-24s %d\n", r, prefs.ReasonCounts[r])
			}
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show contributor stats and tier progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()
		defer eng.Close()

		stats, err := eng.GetContributorStats()
		if err != nil {
			return err
		}

		if profileJSON {
			return printJSON(stats)
		}

		progress := reputation.ProgressToNext(stats.TotalPoints)

		fmt.Printf("Tier:          %s\n", stats.CurrentTier)
		fmt.Printf("Points:        %d\n", stats.TotalPoints)
		fmt.Printf("Contributions: %d\n", stats.TotalContributions)
		fmt.Printf("Taste score:   %.2f\n", stats.TasteScore)
		if progress.NextTier != "" {
			fmt.Printf("Next tier:     %s (%d points to go, %d%%)\n",
				progress.NextTier, progress.PointsToNext, progress.ProgressPercent)
		}
		if len(stats.ExpertiseTags) > 0 {
			fmt.Printf("Expertise:     %s\n", strings.Join(stats.ExpertiseTags, ", "))
		}
		fmt.Printf("Consent:       %v\n", stats.ConsentEnabled)
		return nil
	},
}

func printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s: %s\n", label, strings.Join(items, ", "))
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	profileCmd.PersistentFlags().BoolVar(&profileJSON, "json", false, "output JSON")
	prefsCmd.Flags().BoolVar(&profileJSON, "json", false, "output JSON")
	statsCmd.Flags().BoolVar(&profileJSON, "json", false, "output JSON")
}
