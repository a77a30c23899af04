package main

func main() {
	poll := tick(500)
	serve(poll)
}

func serve(c chan int) {
	ln := listen("tcp")
	for range c {
		accept(ln)
	}
}
