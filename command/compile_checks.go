package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[RelayMessage]             = (*RelayCommand)(nil)
	_ gocmd.Commander[TransferOwnershipMessage] = (*TransferOwnershipCommand)(nil)
	_ gocmd.Commander[TogglePauseMessage]       = (*TogglePauseCommand)(nil)
)
