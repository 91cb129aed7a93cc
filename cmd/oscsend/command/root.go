package command

// root.go defines the root command for oscsend and the shared sender used by
// every test suite.

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/soundctl/oscd/osc"
)

var (
	host  string        // global flag for the server host
	port  int           // global flag for the server port
	delay time.Duration // pause between message groups
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oscsend",
	Short: "oscsend - OSC server test driver",
	Long: `oscsend fires canned OSC messages at an oscd server and reports per-message
send success. It reproduces the suites used to exercise the dispatch server:

- basic:  ping, echo, info and math traffic
- custom: volume, MIDI note and parameter handlers, including error cases
- edge:   unknown addresses, large numbers, long and non-ASCII strings
- types:  every supported argument type (int32, float32, string, blob)
- stress: rapid bursts of messages

The server never has to reply; oscsend only verifies that datagrams leave.
Use "oscsend all" to run every suite in order.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "127.0.0.1", "OSC server host")
	rootCmd.PersistentFlags().IntVar(&port, "port", 8000, "OSC server port")
	rootCmd.PersistentFlags().DurationVar(&delay, "delay", 100*time.Millisecond, "pause between message groups")
}

// sender wraps an OSC client with the ✓/✗ reporting of the original driver.
type sender struct {
	client *osc.Client
}

func newSender() (*sender, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	client, err := osc.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}

	fmt.Printf("Testing OSC server at %s\n", addr)
	return &sender{client: client}, nil
}

func (s *sender) close() {
	s.client.Close()
}

// send builds and sends a single message, reporting the outcome.
func (s *sender) send(addr string, args ...interface{}) {
	msg := osc.NewMessage(addr)
	if err := msg.Append(args...); err != nil {
		color.Red("✗ error sending %s: %v", addr, err)
		return
	}

	if err := s.client.Send(msg); err != nil {
		color.Red("✗ error sending %s: %v", addr, err)
		return
	}
	color.Green("✓ sent: %s %v", addr, args)
}

func (s *sender) pause() {
	time.Sleep(delay)
}

func header(name string) {
	fmt.Printf("\n=== %s ===\n", name)
}
