// Package debug holds the utilities enabled by the debugging config section.
package debug

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/dcrodman/hangman/internal/protocol"
)

// Direction of a logged message relative to the server.
type Direction string

const (
	Inbound  Direction = "client->server"
	Outbound Direction = "server->client"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// StartPprofServer starts the default pprof HTTP server that can be accessed via
// localhost to get runtime information about the server. See https://golang.org/pkg/net/http/pprof/
func StartPprofServer(logger *logrus.Logger, port int) {
	listenerAddr := fmt.Sprintf("localhost:%d", port)
	logger.Infof("starting pprof server on %s", listenerAddr)

	go func() {
		if err := http.ListenAndServe(listenerAddr, nil); err != nil {
			logger.Infof("error starting pprof server: %s", err)
		}
	}()
}

// LogMessage writes a dump of a protocol message at debug level.
func LogMessage(logger logrus.FieldLogger, dir Direction, msg protocol.Message) {
	logger.WithField("direction", dir).Debugf("%s message\n%s", msg.Kind(), DumpMessage(msg))
}

// DumpMessage renders a message with its field names and raw byte values.
func DumpMessage(msg protocol.Message) string {
	return dumper.Sdump(msg)
}
