// Command treectl creates, inspects and updates tree store files.
package main

func main() {
	execute()
}
