package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/wudsh1/playworks-sub001/demo"
	"github.com/wudsh1/playworks-sub001/server"
)

func main() {
	addr := flag.String("addr", ":5808", "listen address")
	noBrowser := flag.Bool("no-browser", false, "do not open the dev panel")
	flag.Parse()
	runDevPanel(*addr, !*noBrowser)
}

func runDevPanel(addr string, open bool) {
	url := "http://localhost" + addr + "/dev"
	if open {
		go func() {
			// 等 server 真的在聽再開瀏覽器
			if err := waitForTCP(addr, 5*time.Second); err != nil {
				log.Fatal("dev server not ready:" + err.Error())
			}
			if err := openBrowser(url); err != nil {
				log.Println("open browser failed:" + err.Error())
			}
		}()
	}
	scfg, err := demo.NewServerConfig()
	if err != nil {
		log.Fatal("set server configs error:" + err.Error())
	}
	scfg.Addr = addr
	server.Run(scfg)
}

func waitForTCP(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	target := addr
	if strings.HasPrefix(addr, ":") {
		target = "127.0.0.1" + addr
	}
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", target, 200*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %s", addr)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
