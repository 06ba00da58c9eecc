package protocol

import "errors"

var ErrProtocol = errors.New("protocol error")
