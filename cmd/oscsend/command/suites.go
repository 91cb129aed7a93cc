package command

// suites.go holds the canned test suites. The vectors match the traffic the
// dispatch server is specified against: see the handler contract table.

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var basicCmd = &cobra.Command{
	Use:   "basic",
	Short: "Basic functionality: ping, echo, info, math",
	RunE:  runSuite(runBasic),
}

var customCmd = &cobra.Command{
	Use:   "custom",
	Short: "Custom handlers: volume, MIDI note, parameters (incl. error cases)",
	RunE:  runSuite(runCustom),
}

var edgeCmd = &cobra.Command{
	Use:   "edge",
	Short: "Edge cases: unknown addresses, large numbers, long strings",
	RunE:  runSuite(runEdge),
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Every supported OSC argument type",
	RunE:  runSuite(runTypes),
}

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Rapid message bursts",
	RunE:  runSuite(runStress),
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every suite in order",
	RunE:  runSuite(runBasic, runCustom, runEdge, runTypes, runStress),
}

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Ask the server to terminate gracefully",
	RunE: runSuite(func(s *sender) {
		header("Shutdown")
		s.send("/system/shutdown")
	}),
}

func init() {
	rootCmd.AddCommand(basicCmd, customCmd, edgeCmd, typesCmd, stressCmd, allCmd, shutdownCmd)
}

// runSuite adapts suite functions into a cobra RunE sharing one client.
func runSuite(suites ...func(*sender)) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		s, err := newSender()
		if err != nil {
			return err
		}
		defer s.close()

		for _, suite := range suites {
			suite(s)
		}

		fmt.Println("\n=== Testing Complete ===")
		return nil
	}
}

func runBasic(s *sender) {
	header("Basic OSC Tests")

	s.send("/ping")
	s.pause()

	s.send("/echo", int32(42))
	s.send("/echo", float32(3.14159))
	s.send("/echo", "hello world")
	s.send("/echo", int32(123), float32(45.67), "mixed")
	s.pause()

	s.send("/info")
	s.pause()

	s.send("/math/add", int32(10), int32(15))
	s.send("/math/add", int32(100), int32(200))
	s.pause()
}

func runCustom(s *sender) {
	header("Custom Handler Tests")

	s.send("/audio/volume", float32(0.75))
	s.send("/audio/volume", int32(50))    // converted from int, then clamped
	s.send("/audio/volume", float32(1.5)) // clamps to 1.0
	s.send("/audio/volume")               // server rejects: no args
	s.pause()

	s.send("/midi/note", int32(60), int32(127))
	s.send("/midi/note", int32(72), int32(100))
	s.send("/midi/note", float32(48.5), float32(80.2)) // floats truncate
	s.send("/midi/note", int32(60))                    // server rejects: not enough args
	s.pause()

	s.send("/control/param", "filter_cutoff", float32(1000.0))
	s.send("/control/param", "reverb_mix", float32(0.3))
	s.send("/control/param", "delay_time", int32(500))
	s.send("/control/param") // server rejects: no args
	s.pause()
}

func runEdge(s *sender) {
	header("Edge Case Tests")

	s.send("/unknown/address")
	s.send("/test/nonexistent", int32(1), int32(2), int32(3))
	s.pause()

	s.send("/ping")
	s.pause()

	s.send("/math/add", int32(999999), int32(1))
	s.send("/math/add", int32(-500), int32(600))
	s.pause()

	s.send("/echo", strings.Repeat("A", 100))
	s.pause()

	s.send("/echo", "Hello 世界! 🎵")
	s.pause()
}

func runTypes(s *sender) {
	header("Data Type Tests")

	s.send("/echo", int32(42))
	s.send("/echo", int32(-1000))
	s.send("/echo", int32(0))

	s.send("/echo", float32(3.14159))
	s.send("/echo", float32(-999.999))
	s.send("/echo", float32(0.0))

	s.send("/echo", "simple string")
	s.send("/echo", "")

	s.send("/echo", []byte("raw blob bytes"))

	s.send("/echo", int32(123), float32(45.67), "mixed")
	s.send("/echo", "first", int32(456), float32(78.90))

	s.pause()
}

func runStress(s *sender) {
	header("Stress Tests")

	fmt.Println("Sending rapid ping messages...")
	start := time.Now()
	for i := 0; i < 50; i++ {
		s.send("/ping")
		time.Sleep(10 * time.Millisecond)
	}
	elapsed := time.Since(start).Seconds()
	fmt.Printf("Sent 50 messages in %.2fs (%.1f msg/s)\n", elapsed, 50/elapsed)

	fmt.Println("Sending batch of mixed messages...")
	for i := 0; i < 20; i++ {
		s.send("/math/add", int32(i), int32(i*2))
		s.send("/audio/volume", float32(i)/20.0)
		s.send("/echo", fmt.Sprintf("message_%d", i))
		time.Sleep(5 * time.Millisecond)
	}
	s.pause()
}
