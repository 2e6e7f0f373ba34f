package logging

import "github.com/BrugadaSyndrome/bslogger"

// Level selects how much a logger prints.
type Level int

const (
	// Quiet prints errors only. Used when stdout carries frame data.
	Quiet Level = iota
	Normal
	Verbose
)

func (l Level) String() string {
	return []string{
		"Quiet", "Normal", "Verbose",
	}[l]
}

// LevelFor picks the level for the CLI's verbose flag and output destination.
func LevelFor(verbose, stdoutIsData bool) Level {
	switch {
	case stdoutIsData:
		return Quiet
	case verbose:
		return Verbose
	default:
		return Normal
	}
}

func New(name string, level Level) bslogger.Logger {
	switch level {
	case Quiet:
		return bslogger.NewLogger(name, bslogger.Minimal, nil)
	case Verbose:
		return bslogger.NewLogger(name, bslogger.All, nil)
	default:
		return bslogger.NewLogger(name, bslogger.Normal, nil)
	}
}
