package util

import (
	"bufio"
	"errors"
	"os"
	"strconv"
	"strings"
)

// DefaultChannelFile keeps the announcement channel between restarts
const DefaultChannelFile = "current_channel.txt"

// ChannelFile is the file holding the id of the announcement channel
type ChannelFile string

// Get returns the stored channel id, or "" when none was set yet.
func (f ChannelFile) Get() (string, error) {
	file, err := os.Open(string(f))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		// False on error or EOF
		return "", scanner.Err()
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// Set replaces the stored channel id
func (f ChannelFile) Set(channelID string) error {
	return os.WriteFile(string(f), []byte(channelID), 0o600)
}

func DiscordIDToText(userID uint) string {
	return "<@" + strconv.FormatUint(uint64(userID), 10) + ">"
}

// WalletOf is the wallet address standing for a discord user
func WalletOf(userID uint) string {
	return "discord:" + strconv.FormatUint(uint64(userID), 10)
}
