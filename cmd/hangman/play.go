package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dcrodman/hangman/internal/client"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Plays a game against a running server",
	Run:   PlayCommand,
}

var AddressFlag string

func PlayCommand(cmd *cobra.Command, args []string) {
	address := AddressFlag
	if address == "" {
		cfg := loadConfig()
		address = fmt.Sprintf("localhost:%d", cfg.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := client.Dial(ctx, address)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer driver.Close()

	if err := driver.Play(ctx, os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, client.ErrServerFull) {
			fmt.Println(err)
		}
		driver.Close()
		os.Exit(1)
	}
}
