package invite

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

type Handler struct {
	url string
}

func NewHandler(url string) *Handler {
	return &Handler{url: url}
}

// ResolveURL returns the explicit override or an http URL on the first
// non-loopback IPv4 address of this machine. It returns "" when none exists.
func ResolveURL(override string, clientPort int) string {
	if override != "" {
		return override
	}
	ip := LocalIPv4()
	if ip == nil {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", ip, clientPort)
}

func LocalIPv4() net.IP {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	return firstLANAddress(addrs)
}

func firstLANAddress(addrs []net.Addr) net.IP {
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			continue
		}
		return ip
	}
	return nil
}

func (h *Handler) URLHandler(ctx *gin.Context) {
	if h.url == "" {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no-lan-address"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"url": h.url})
}

func (h *Handler) QRHandler(ctx *gin.Context) {
	if h.url == "" {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no-lan-address"})
		return
	}

	png, err := qrcode.Encode(h.url, qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("QR generation failed", "url", h.url, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "qr-generation-failed"})
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}
