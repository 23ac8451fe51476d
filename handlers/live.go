package handlers

import (
	"time"

	"github.com/carl0-ilagan/padbuddy-server/pkg/livestore"
	"github.com/carl0-ilagan/padbuddy-server/pkg/readings"
)

// Live is the realtime device-state store, wired up in main before the
// router starts serving.
var Live *livestore.Store

func InitLiveStore() {
	Live = livestore.New(readings.DefaultBufferCap, func() int64 {
		return time.Now().UnixMilli()
	})
}
