package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Small diagnostic for picking a MIDI output. Copy the exact port name into
// sound.midiPort in ~/.config/hex-a-theremin/config.json.

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "test":
		if len(os.Args) < 3 {
			fmt.Println("usage: midiports test <port name>")
			return
		}
		testNote(os.Args[2])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI port tools")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list             - List all MIDI output ports")
	fmt.Println("  test <port>      - Send a short test note to a port")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- midi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		if len(outs) == 0 {
			fmt.Println("  none")
			return
		}
		for i, p := range outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! The MIDI server is hung.")
	}
}

func testNote(name string) {
	var port drivers.Out
	for _, p := range midi.GetOutPorts() {
		if strings.EqualFold(p.String(), name) {
			port = p
			break
		}
	}
	if port == nil {
		fmt.Printf("No output port named %q; run 'midiports list'\n", name)
		return
	}

	send, err := midi.SendTo(port)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}

	fmt.Printf("Sending middle C to %s...\n", port.String())
	if err := send(midi.NoteOn(0, 60, 100)); err != nil {
		fmt.Printf("Error sending: %v\n", err)
		return
	}
	time.Sleep(500 * time.Millisecond)
	send(midi.NoteOff(0, 60))
	fmt.Println("Done. If you heard nothing, check the receiving synth's channel 1.")
}
