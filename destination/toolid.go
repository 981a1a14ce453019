package destination

import (
	"strings"

	"github.com/usegalaxy-eu/jcaas/logger"
)

var log = logger.New("destination")

// ShortToolID converts a fully-qualified toolshed id such as
// "toolshed.g2.bx.psu.edu/repos/devteam/column_maker/Add_a_column1/1.1.0"
// to the short form ("Add_a_column1") used to index the tool catalog.
// Short ids (e.g. "upload1") pass through unchanged.
func ShortToolID(toolID string) string {
	switch strings.Count(toolID, "/") {
	case 0:
		return toolID
	case 5:
		// server / "repos" / owner / repo / name / version
		parts := strings.Split(toolID, "/")
		return parts[4]
	}

	// No idea what this is. Degrades to "no override found".
	log.Warn("Strange tool ID, not sure how to handle it", "toolID", toolID)
	return toolID
}
