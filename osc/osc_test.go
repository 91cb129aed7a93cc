package osc

// Shared test fixtures. Every raw packet below is spelled out byte for byte
// against the OSC 1.0 layout so the codec tests don't depend on the encoder
// they are testing.

type testCase struct {
	name    string
	obj     Packet
	raw     []byte
	wantErr bool
}

var messageTestCases = []testCase{
	{
		"no_args",
		NewMessage("/ping"),
		[]byte("/ping\x00\x00\x00,\x00\x00\x00"),
		false,
	},
	{
		"two_ints",
		NewMessage("/math/add", int32(10), int32(15)),
		[]byte("/math/add\x00\x00\x00,ii\x00\x00\x00\x00\x0a\x00\x00\x00\x0f"),
		false,
	},
	{
		"one_float",
		NewMessage("/audio/volume", float32(0.75)),
		[]byte("/audio/volume\x00\x00\x00,f\x00\x00\x3f\x40\x00\x00"),
		false,
	},
	{
		"string",
		NewMessage("/echo", "hello"),
		[]byte("/echo\x00\x00\x00,s\x00\x00hello\x00\x00\x00"),
		false,
	},
	{
		"blob",
		NewMessage("/echo", []byte{1, 2, 3}),
		[]byte("/echo\x00\x00\x00,b\x00\x00\x00\x00\x00\x03\x01\x02\x03\x00"),
		false,
	},
	{
		"string_and_float",
		NewMessage("/control/param", "reverb_mix", float32(0.5)),
		[]byte("/control/param\x00\x00,sf\x00reverb_mix\x00\x00\x3f\x00\x00\x00"),
		false,
	},
	{
		"no_leading_slash",
		nil,
		[]byte("ping\x00\x00\x00\x00,\x00\x00\x00"),
		true,
	},
	{
		"not_32bit_aligned",
		nil,
		[]byte("/ping\x00\x00\x00,\x00"),
		true,
	},
	{
		"missing_typetags",
		nil,
		[]byte("/ping\x00\x00\x00"),
		true,
	},
	{
		"typetags_without_comma",
		nil,
		[]byte("/ping\x00\x00\x00i\x00\x00\x00"),
		true,
	},
	{
		"unknown_typetag",
		nil,
		[]byte("/ping\x00\x00\x00,x\x00\x00\x00\x00\x00\x00"),
		true,
	},
	{
		"truncated_int",
		nil,
		[]byte("/a\x00\x00,ii\x00\x00\x00\x00\x01"),
		true,
	},
	{
		"truncated_blob",
		nil,
		[]byte("/a\x00\x00,b\x00\x00\x00\x00\x00\x10"),
		true,
	},
}

var bundleTestCases = []testCase{
	{
		"empty_bundle",
		&Bundle{Timetag: TimetagImmediate},
		[]byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01"),
		false,
	},
	{
		"single_message",
		&Bundle{Timetag: TimetagImmediate, Elements: []Packet{NewMessage("/ping")}},
		[]byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01" +
			"\x00\x00\x00\x0c/ping\x00\x00\x00,\x00\x00\x00"),
		false,
	},
	{
		"nested_bundle",
		&Bundle{Timetag: TimetagImmediate, Elements: []Packet{&Bundle{Timetag: Timetag(2)}}},
		[]byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01" +
			"\x00\x00\x00\x10#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x02"),
		false,
	},
	{
		"too_short",
		nil,
		[]byte("#bundle\x00"),
		true,
	},
	{
		"element_length_overrun",
		nil,
		[]byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\xff"),
		true,
	},
}
