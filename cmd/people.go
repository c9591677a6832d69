package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-counter/internal/database"
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Inspect and manage stored people",
}

var peopleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every stored person",
	Args:  cobra.NoArgs,
	RunE:  runPeopleList,
}

var peopleShowCmd = &cobra.Command{
	Use:   "show <person-id>",
	Short: "Show one stored person",
	Args:  cobra.ExactArgs(1),
	RunE:  runPeopleShow,
}

var peopleExportCmd = &cobra.Command{
	Use:   "export <person-id>",
	Short: "Write the stored face image of a person to a file",
	Long: `Write the stored face image of a person to a file.

Examples:
  face-counter people export Person_3 -o person3.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runPeopleExport,
}

var peopleDeleteCmd = &cobra.Command{
	Use:   "delete <person-id>",
	Short: "Delete a stored person",
	Long: `Delete a stored person. The identifier is not reused: a later sighting of
the same face is stored as a new person.`,
	Args: cobra.ExactArgs(1),
	RunE: runPeopleDelete,
}

func init() {
	rootCmd.AddCommand(peopleCmd)
	peopleCmd.AddCommand(peopleListCmd, peopleShowCmd, peopleExportCmd, peopleDeleteCmd)

	peopleListCmd.Flags().Bool("json", false, "Output as JSON")
	peopleShowCmd.Flags().Bool("json", false, "Output as JSON")
	peopleExportCmd.Flags().StringP("output", "o", "", "Output file (default <person-id>.jpg)")
}

// getPerson loads a person or returns a not-found error.
func getPerson(cmd *cobra.Command, store database.PersonReader, personID string) (*database.Person, error) {
	p, err := store.GetPerson(cmd.Context(), personID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("person %s not found", personID)
	}
	return p, nil
}

func runPeopleList(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openStore(cmd.Context(), &appConfig.Database)
	if err != nil {
		return err
	}
	defer closeStore(closeFn)

	people, err := store.ListPeople(cmd.Context())
	if err != nil {
		return err
	}

	summaries := make([]database.Summary, len(people))
	for i := range people {
		summaries[i] = people[i].Summarize()
	}

	if mustGetBool(cmd, "json") {
		return printJSON(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No people stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERSON\tLAST SEEN\tIMAGE")
	fmt.Fprintln(w, "------\t---------\t-----")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d B\n", s.PersonID, s.LastSeen.Local().Format(time.DateTime), s.ImageBytes)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d\n", len(summaries))
	return nil
}

func runPeopleShow(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openStore(cmd.Context(), &appConfig.Database)
	if err != nil {
		return err
	}
	defer closeStore(closeFn)

	p, err := getPerson(cmd, store, args[0])
	if err != nil {
		return err
	}

	s := p.Summarize()
	if mustGetBool(cmd, "json") {
		return printJSON(s)
	}

	fmt.Printf("Person:     %s\n", s.PersonID)
	fmt.Printf("Last seen:  %s\n", s.LastSeen.Local().Format(time.DateTime))
	fmt.Printf("Embedding:  %d dimensions\n", s.EmbeddingDim)
	fmt.Printf("Image:      %d bytes\n", s.ImageBytes)
	return nil
}

func runPeopleExport(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openStore(cmd.Context(), &appConfig.Database)
	if err != nil {
		return err
	}
	defer closeStore(closeFn)

	p, err := getPerson(cmd, store, args[0])
	if err != nil {
		return err
	}
	if len(p.Image) == 0 {
		return errors.New("person has no stored image")
	}

	output := mustGetString(cmd, "output")
	if output == "" {
		output = p.PersonID + ".jpg"
	}
	if err := os.WriteFile(output, p.Image, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", output, len(p.Image))
	return nil
}

func runPeopleDelete(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openStore(cmd.Context(), &appConfig.Database)
	if err != nil {
		return err
	}
	defer closeStore(closeFn)

	deleted, err := store.DeletePerson(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("person %s not found", args[0])
	}

	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
