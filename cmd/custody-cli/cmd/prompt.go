// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/utils"
)

var (
	ErrInputEmpty    = errors.New("input is empty")
	ErrInputTooLarge = errors.New("input is too large")
	ErrInvalidAmount = errors.New("amount must be positive")
)

func promptAddress(label string) (codec.Address, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) == 0 {
				return ErrInputEmpty
			}
			_, err := codec.ParseAddress(strings.TrimSpace(input))
			return err
		},
	}
	addr, err := promptText.Run()
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.ParseAddress(strings.TrimSpace(addr))
}

func promptString(label string, maxLen int) (string, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) > maxLen {
				return ErrInputTooLarge
			}
			return nil
		},
	}
	return promptText.Run()
}

func promptAmount(label string) (uint64, error) {
	promptText := promptui.Prompt{
		Label: label + " (units, or raw:<base units>)",
		Validate: func(input string) error {
			if len(input) == 0 {
				return ErrInputEmpty
			}
			amount, err := utils.ParseBalance(input)
			if err != nil {
				return err
			}
			if amount == 0 {
				return ErrInvalidAmount
			}
			return nil
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return 0, err
	}
	return utils.ParseBalance(raw)
}

func promptUint(label string) (uint64, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := strconv.ParseUint(input, 10, 64)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(raw, 10, 64)
}

func promptContinue() (bool, error) {
	promptText := promptui.Select{
		Label: "continue",
		Items: []string{"yes", "no"},
	}
	_, choice, err := promptText.Run()
	if err != nil {
		return false, err
	}
	return choice == "yes", nil
}
