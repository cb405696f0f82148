package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dcrodman/hangman/internal/words"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Prints the word list as the server would load it",
	Run:   WordsCommand,
}

func WordsCommand(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	bank, err := words.Load(cfg.WordFile, words.Options{
		MaxWords:      cfg.MaxWords,
		MaxWordLength: cfg.MaxWordLength,
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	for i, w := range bank.Words() {
		fmt.Printf("%3d  %s\n", i+1, w)
	}
	fmt.Printf("%d words loaded from %s\n", bank.Len(), cfg.WordFile)
}
