// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ik5/voicebot/audio"
	"github.com/ik5/voicebot/internal/audiotest"
)

// Example_resampler converts one second of 44.1kHz audio to 16kHz.
func Example_resampler() {
	samples := audiotest.Sine(44100, 44100, 1, 440, 0.5)

	r, err := audio.NewResampler(44100, 16000)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	var out []float64
	i := 0
	for ; i+r.ChunkSize() <= len(samples); i += r.ChunkSize() {
		out, _ = r.Process(out, samples[i:i+r.ChunkSize()])
	}
	out, _ = r.Flush(out, samples[i:])

	fmt.Printf("Input: %d samples at %d Hz\n", r.Consumed(), r.SourceRate())
	fmt.Printf("Output: %d samples at %d Hz\n", len(out), r.TargetRate())
	// Output:
	// Input: 44100 samples at 44100 Hz
	// Output: 16000 samples at 16000 Hz
}

// Example_mixToMono averages each stereo frame.
func Example_mixToMono() {
	stereo := []float64{1, 3, 2, 4}

	mono, err := audio.MixToMono(nil, stereo, 2)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println(mono)
	// Output: [2 3]
}

// Example_sampleFormat shows how integer PCM maps onto [-1, 1].
func Example_sampleFormat() {
	desc := audio.StreamDescriptor{SampleRate: 8000, Channels: 1, BitDepth: 8}

	samples, _ := audio.DecodePCM(nil, []byte{0x00, 0x80, 0xC0}, desc, binary.LittleEndian)
	for _, s := range samples {
		fmt.Printf("%.2f\n", s)
	}
	// Output:
	// -1.00
	// 0.00
	// 0.50
}

// Example_duration computes playback time from an interleaved sample count.
func Example_duration() {
	fmt.Printf("%.1f seconds\n", audio.Duration(88200, 44100, 2))
	// Output: 1.0 seconds
}

// Example_readLoop drives a FormatReader until the end of the stream.
func Example_readLoop() {
	reader := &audiotest.ScriptedReader{
		TrackList: []audio.Track{{ID: 0, Codec: audio.CodecPCMU8}},
		Script: []audio.ReadResult{
			audio.PacketResult(audio.Packet{Data: []byte{0x80, 0x80}}),
			audio.ResetRequired(),
			audio.PacketResult(audio.Packet{Data: []byte{0x80}}),
		},
	}

	packets, resets := 0, 0
	for done := false; !done; {
		res := reader.Next()
		switch res.Status {
		case audio.StatusPacket:
			packets++
		case audio.StatusResetRequired:
			resets++
		case audio.StatusEndOfStream:
			done = true
		case audio.StatusFatal:
			fmt.Printf("Error: %v\n", res.Err)
			return
		}
	}

	fmt.Printf("Packets: %d, resets: %d\n", packets, resets)
	// Output: Packets: 2, resets: 1
}

// Example_errorHandling matches failures by kind.
func Example_errorHandling() {
	_, err := audio.NewResampler(8000, 96000)
	if errors.Is(err, audio.ErrUnsupportedResampleRatio) {
		fmt.Println("ratio rejected")
	}

	_, err = audio.Divisor(12)
	if errors.Is(err, audio.ErrUnsupportedBitDepth) {
		fmt.Println("bit depth rejected")
	}
	// Output:
	// ratio rejected
	// bit depth rejected
}
