package weblog_test

import (
	"fmt"
	"io"
	"net/http"

	"github.com/abczzz13/weblog"
)

func ExampleClientIP() {
	req := &http.Request{
		RemoteAddr: "192.0.2.4:1234",
		Header:     http.Header{"X-Forwarded-For": []string{"203.0.113.7, 10.0.0.1"}},
	}

	ip, _ := weblog.ClientIP(req)
	fmt.Println(ip)
	// Output: 10.0.0.1
}

func ExampleBuildFullURL() {
	fmt.Println(weblog.BuildFullURL("a/b", "http://example.com/x/"))
	fmt.Println(weblog.BuildFullURL("/a/b", "http://example.com/x/"))
	fmt.Println(weblog.BuildFullURL("", "http://example.com/x/"))
	// Output:
	// http://example.com/x/a/b
	// http://example.com/a/b
	// http://example.com/x/
}

func ExampleNew() {
	reg, err := weblog.New(
		weblog.WithOutput(io.Discard),
		weblog.WithDebug(false),
	)
	if err != nil {
		panic(err)
	}

	logger, err := reg.Logger("orders")
	if err != nil {
		panic(err)
	}

	logger.Info("order accepted", "id", 42)
	fmt.Println(logger.Name())
	// Output: orders
}

func ExampleSecureFunc() {
	reg, err := weblog.New(weblog.WithOutput(io.Discard))
	if err != nil {
		panic(err)
	}
	logger, err := reg.Logger("jobs")
	if err != nil {
		panic(err)
	}

	load := weblog.SecureFunc(logger, func() int {
		panic("cache poisoned")
	}, weblog.GuardOptions[int]{
		FailValue: weblog.Set(42),
	})

	fmt.Println(load())
	// Output: 42
}
