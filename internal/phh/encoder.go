package phh

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/lox/holdem-referee/internal/game"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeAll writes hands as numbered sections, the PHH layout for a file of
// several hands
func EncodeAll(w io.Writer, hands []*HandHistory) error {
	for i, hand := range hands {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%d]\n", i+1); err != nil {
			return err
		}
		if err := Encode(w, hand); err != nil {
			return fmt.Errorf("hand %s: %w", hand.HandID, err)
		}
	}
	return nil
}

// WriteFile encodes hands into filename. The file is replaced atomically so
// readers never see a partial history.
func WriteFile(filename string, hands ...*HandHistory) error {
	var buf bytes.Buffer
	if len(hands) == 1 {
		if err := Encode(&buf, hands[0]); err != nil {
			return err
		}
	} else if err := EncodeAll(&buf, hands); err != nil {
		return err
	}

	// Same directory so the rename cannot cross filesystems
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// FormatAction converts an engine action to a PHH action string. total is
// the player's bet for the street after the action and streetBet the highest
// bet before it. Blind posts are carried by blinds_or_straddles and are not
// emitted.
func FormatAction(index int, action game.Action, total, streetBet int) (string, bool) {
	player := fmt.Sprintf("p%d", index+1)
	switch action {
	case game.Fold:
		return player + " f", true
	case game.Check, game.Call:
		return player + " cc", true
	case game.Bet, game.Raise:
		return fmt.Sprintf("%s cbr %d", player, total), true
	case game.AllIn:
		// An all-in that does not top the bet is a call
		if total <= streetBet {
			return player + " cc", true
		}
		return fmt.Sprintf("%s cbr %d", player, total), true
	case game.PostSmallBlind, game.PostBigBlind:
		return "", false
	default:
		return fmt.Sprintf("# %s %s %d", player, action, total), true
	}
}
