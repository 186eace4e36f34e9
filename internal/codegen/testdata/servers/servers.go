package servers

//go:generate go run github.com/bassosimone/sockaddr/cmd/sockaddrgen

// Well-known resolvers.
//
//sockaddr:addr CloudflareDNS 1.1.1.1:53
//sockaddr:family CloudflareDNSv6 [2606:4700:4700::1111]:53
//sockaddr:addr LinkLocal [fe80::1%3]:8080

// Local endpoints.
//
//sockaddr:family Loopback 127.0.0.1:8080
