package tui

import (
	"codeberg.org/adcraft/server/api/rest/generate"
	"codeberg.org/adcraft/server/api/rest/media"
	"codeberg.org/adcraft/server/api/rest/usage"
	"codeberg.org/adcraft/server/internal/adcopy"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
)

// which part of the screen receives key presses
type focusArea int

const (
	focusPath focusArea = iota
	focusInstructions
	focusCommands
)

// main TUI application model
type Model struct {
	client    *Client
	exportDir string

	width  int
	height int

	pathInput         textinput.Model
	instructionsInput textinput.Model
	spinner           spinner.Model
	focus             focusArea

	isFetching   bool
	selectedPath string
	media        *media.MediaResponse
	result       *adcopy.Result
	usage        *usage.UsageResponse
	status       string
	err          error
}

// sent when the usage snapshot is loaded or changed
type usageMsg struct {
	resp *usage.UsageResponse
}

// sent when a generation finishes, media is set when the creative was uploaded first
type generatedMsg struct {
	path  string
	media *media.MediaResponse
	resp  *generate.GenerateResponse
}

// sent when the selection was uploaded but generation failed
type mediaSelectedMsg struct {
	path  string
	media *media.MediaResponse
	err   error
}

type exportedMsg struct {
	path string
}

type clearedMsg struct{}

// sent when a request fails
type errMsg struct {
	err error
}
