package bot

import "errors"

var (
	errNotGameMaster   = errors.New("you are not the game master")
	errIllegalArgument = errors.New("illegal argument")
)
