//Package osc implements the wire format, client and server for the
//Open Sound Control 1.0 protocol over UDP.
//
//Open Sound Control (OSC) is an open, transport-independent, message-based protocol developed for communication among computers,
//sound synthesizers, and other multimedia devices.
//
//The unit of transmission of OSC is an OSC Packet. Any application that sends OSC Packets is an OSC Client;
//any application that receives OSC Packets is an OSC Server.
//
//An OSC packet consists of its contents, a contiguous block of binary data.
//The size of an OSC packet is always 32-bit aligned.
//
//OSC packets come in two flavors:
//
//OSC Messages: An OSC message consists of an OSC address pattern and zero or more OSC arguments.
//
//OSC Bundles: An OSC Bundle consists of an OSC Timetag, followed by zero or more OSC bundle elements.
//Each bundle element can be another OSC bundle (note this recursive definition: a bundle may contain bundles) or OSC message.
//
//This package supports messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//	'b' ([]byte)
//
//Usage
//
//OSC client example:
//  client, _ := osc.Dial("localhost:8000")
//  client.Send(osc.NewMessage("/audio/volume", float32(0.75)))
//
//OSC server example:
//  d := &osc.Dispatcher{}
//  d.AddMethodFunc("/ping", func(msg *osc.Message) (*osc.Message, error) {
//      return osc.NewMessage("/pong"), nil
//  })
//
//  server := &osc.Server{
//      Addr:       "127.0.0.1:8000",
//      Dispatcher: d,
//  }
//  server.ListenAndServe()
package osc
