package minexec

import "gopkg.in/op/go-logging.v1"

var log = logging.MustGetLogger("minexec")

func init() {
	// Quiet unless the host asks for more.
	logging.SetLevel(logging.WARNING, "minexec")
}
