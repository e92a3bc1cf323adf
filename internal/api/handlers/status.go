package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/concave-dev/rollupd/internal/node"
	"github.com/concave-dev/rollupd/internal/p2p"
	"github.com/gin-gonic/gin"
)

// PeersFunc lists gossip members. Nil when the node runs without p2p.
type PeersFunc func() []p2p.Peer

// StatusResponse describes the sequencer for operators.
type StatusResponse struct {
	NodeName string      `json:"node_name"`
	Version  string      `json:"version"`
	Uptime   string      `json:"uptime"`
	Node     node.Status `json:"node"`
	Members  int         `json:"members"`
}

// HandleStatus returns the node's batching state.
func HandleStatus(nodeName, version string, startTime time.Time, status StatusFunc, peers PeersFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := StatusResponse{
			NodeName: nodeName,
			Version:  version,
			Uptime:   time.Since(startTime).Round(time.Second).String(),
			Node:     status(),
		}
		if peers != nil {
			resp.Members = len(peers())
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   resp,
		})
	}
}

// HandlePeers lists gossip members sorted by name.
func HandlePeers(peers PeersFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if peers == nil {
			c.JSON(http.StatusOK, gin.H{
				"status": "success",
				"data":   []p2p.Peer{},
				"count":  0,
			})
			return
		}

		list := peers()
		sort.Slice(list, func(i, j int) bool {
			return list[i].Name < list[j].Name
		})

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   list,
			"count":  len(list),
		})
	}
}
