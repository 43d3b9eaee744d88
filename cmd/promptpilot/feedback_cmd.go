package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"promptpilot/internal/feedback"
)

var feedbackReason string

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record feedback about a generated prompt",
}

var rateCmd = &cobra.Command{
	Use:   "rate <stars> <content>",
	Short: "Record a 1-5 star rating",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stars, err := strconv.Atoi(args[0])
		if err != nil || stars < 1 || stars > 5 {
			return fmt.Errorf("stars must be 1-5, got %q", args[0])
		}
		return recordEvent(feedback.RatingEvent{Content: strings.Join(args[1:], " "), Stars: stars})
	},
}

var likeCmd = &cobra.Command{
	Use:   "like <content>",
	Short: "Record a like",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordEvent(feedback.ReactionEvent{Content: strings.Join(args, " "), Liked: true})
	},
}

var dislikeCmd = &cobra.Command{
	Use:   "dislike <content>",
	Short: "Record a dislike",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordEvent(feedback.ReactionEvent{Content: strings.Join(args, " "), Liked: false})
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <content>",
	Short: "Record a structured rejection (use --reason)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordEvent(feedback.RejectionEvent{Content: strings.Join(args, " "), Reason: feedbackReason})
	},
}

var trashCmd = &cobra.Command{
	Use:   "trash <content>",
	Short: "Mark a prompt as trash (use --reason)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordEvent(feedback.TrashEvent{Content: strings.Join(args, " "), Reason: feedbackReason})
	},
}

var customCmd = &cobra.Command{
	Use:   "custom <text>",
	Short: "Record free-text feedback (negative with --negative)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		negative, _ := cmd.Flags().GetBool("negative")
		return recordEvent(feedback.CustomEvent{Text: strings.Join(args, " "), Positive: !negative})
	},
}

func recordEvent(ev feedback.Event) error {
	eng, st, err := openEngine()
	if err != nil {
		return err
	}
	defer st.Close()
	defer eng.Close()

	if err := eng.RecordFeedback(ev); err != nil {
		return err
	}
	fmt.Printf("Recorded %s feedback\n", ev.Kind())
	return nil
}

func init() {
	rejectCmd.Flags().StringVar(&feedbackReason, "reason", "", "reason label (e.g. too_generic, wrong_style)")
	trashCmd.Flags().StringVar(&feedbackReason, "reason", "", "reason label (e.g. low_quality, off_topic)")
	customCmd.Flags().Bool("negative", false, "treat the feedback as negative")

	feedbackCmd.AddCommand(rateCmd)
	feedbackCmd.AddCommand(likeCmd)
	feedbackCmd.AddCommand(dislikeCmd)
	feedbackCmd.AddCommand(rejectCmd)
	feedbackCmd.AddCommand(trashCmd)
	feedbackCmd.AddCommand(customCmd)
}
