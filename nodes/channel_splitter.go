// Copyright 2020, Square, Inc.

package nodes

import (
	"fmt"

	"github.com/square/imageflow/node"
)

// defaultSplitChannels is the output count before the first Process, when
// the input's channel count isn't known yet.
const defaultSplitChannels = 3

// ChannelSplitter splits a color image into one single-channel output per
// channel. The output count depends on the last processed image (default 3)
// but is stable between two Process calls, which is all the scheduler
// requires.
type ChannelSplitter struct {
	node.Base
	channelCount int
}

func NewChannelSplitter(name string) *ChannelSplitter {
	return &ChannelSplitter{
		Base: node.NewBase(name),
	}
}

func makeChannelSplitter(name string, params map[string]interface{}) (node.Node, error) {
	return NewChannelSplitter(name), nil
}

// ChannelCount returns the channel count of the last processed image, or 0
// if nothing has been processed.
func (n *ChannelSplitter) ChannelCount() int {
	return n.channelCount
}

func (n *ChannelSplitter) InputCount() int { return 1 }

func (n *ChannelSplitter) OutputCount() int {
	if n.channelCount > 0 {
		return n.channelCount
	}
	return defaultSplitChannels
}

func (n *ChannelSplitter) InputName(i int) string {
	if i == 0 {
		return "Image"
	}
	return ""
}

func (n *ChannelSplitter) OutputName(i int) string {
	if i < 0 || i >= n.OutputCount() {
		return ""
	}
	switch i {
	case 0:
		return "Blue Channel"
	case 1:
		return "Green Channel"
	case 2:
		return "Red Channel"
	default:
		return fmt.Sprintf("Channel %d", i)
	}
}

func (n *ChannelSplitter) Ready(in node.Inputs) bool {
	return node.AllWired(n, in)
}

func (n *ChannelSplitter) Process(in node.Inputs) error {
	src := in.Value(0)
	if src.IsEmpty() {
		return node.ErrEmptyInput
	}

	chans := src.Split()
	// Drop stale outputs first: if the channel count shrank, the old high
	// slots no longer correspond to any port.
	n.ResetOutputs()
	n.channelCount = len(chans)
	for i, ch := range chans {
		n.SetOutput(i, ch)
	}
	return nil
}
