package logflags

import (
	"errors"
	"io/ioutil"
	"log"
	"strings"

	"github.com/sirupsen/logrus"
)

var chainwalk = false
var probes = false
var preflight = false
var session = false
var terminal = false
var remoteWire = false

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New().WithFields(fields)
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		logger.Logger.Level = logrus.PanicLevel
	}
	return logger
}

// Chainwalk returns true if the continuation chain walker should log
// every frame it reconstructs.
func Chainwalk() bool {
	return chainwalk
}

// ChainwalkLogger returns a configured logger for the chain walker.
func ChainwalkLogger() *logrus.Entry {
	return makeLogger(chainwalk, logrus.Fields{"layer": "coro", "kind": "chainwalk"})
}

// Probes returns true if the debug-probes snapshot path should log.
func Probes() bool {
	return probes
}

// ProbesLogger returns a logger for the debug-probes snapshot path.
func ProbesLogger() *logrus.Entry {
	return makeLogger(probes, logrus.Fields{"layer": "coro", "kind": "probes"})
}

// Preflight returns true if the physical/logical frame merge should log.
func Preflight() bool {
	return preflight
}

// PreflightLogger returns a logger for the frame merge builder.
func PreflightLogger() *logrus.Entry {
	return makeLogger(preflight, logrus.Fields{"layer": "coro", "kind": "preflight"})
}

// Session returns true if the session package should log.
func Session() bool {
	return session
}

// SessionLogger returns a logger for the session package.
func SessionLogger() *logrus.Entry {
	return makeLogger(session, logrus.Fields{"layer": "session"})
}

// Terminal returns true if the interactive console should log.
func Terminal() bool {
	return terminal
}

// TerminalLogger returns a logger for the interactive console.
func TerminalLogger() *logrus.Entry {
	return makeLogger(terminal, logrus.Fields{"layer": "terminal"})
}

// RemoteWire returns true if every command dispatched to the remote
// target should be logged.
func RemoteWire() bool {
	return remoteWire
}

// RemoteWireLogger returns a logger for remote command dispatch.
func RemoteWireLogger() *logrus.Entry {
	return makeLogger(remoteWire, logrus.Fields{"layer": "remote", "kind": "wire"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets logging flags based on the contents of logstr.
func Setup(logFlag bool, logstr string) error {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if !logFlag {
		log.SetOutput(ioutil.Discard)
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "session"
	}
	v := strings.Split(logstr, ",")
	for _, logcmd := range v {
		switch logcmd {
		case "chainwalk":
			chainwalk = true
		case "probes":
			probes = true
		case "preflight":
			preflight = true
		case "session":
			session = true
		case "terminal":
			terminal = true
		case "wire":
			remoteWire = true
		}
	}
	return nil
}
