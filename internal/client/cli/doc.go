// Package cli provides the interactive readlist command-line client.
//
// It wires configuration, the local session database and the gRPC API
// services into a REPL. A saved, unexpired login is picked up on start.
//
// Commands:
//   - signup, login, whoami, logout
//   - books <list>, add <list> <key>, remove <list> <id>
//   - profile, email, delete
//   - help, exit | quit
//
// Lists are named "to-read" or "read". Passwords are read without echo and
// wiped from memory once sent.
package cli
