package credits

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Credit struct {
	Anime  string `json:"anime"`
	Credit string `json:"credit"`
}

type packData struct {
	Sources []Credit `json:"sources"`
}

// Handler lists the source attributions of every quote pack under ./data.
func Handler(w http.ResponseWriter, _ *http.Request) {
	dirPath := "./data"

	files, err := os.ReadDir(dirPath)
	if err != nil {
		http.Error(w, "Failed to read data directory", http.StatusInternalServerError)
		log.Printf("Error reading directory %s: %v", dirPath, err)
		return
	}

	// Collect unique credits keyed by anime
	allCredits := make(map[string]Credit)

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		filePath := filepath.Join(dirPath, file.Name())

		data, err := os.ReadFile(filePath)
		if err != nil {
			log.Printf("Warning: could not read quote pack %s: %v", filePath, err)
			continue
		}

		var pack packData
		if err := json.Unmarshal(data, &pack); err != nil {
			log.Printf("Warning: could not unmarshal quote pack %s: %v", filePath, err)
			continue
		}

		for _, credit := range pack.Sources {
			allCredits[credit.Anime] = credit
		}
	}

	credits := make([]Credit, 0, len(allCredits))
	for _, credit := range allCredits {
		credits = append(credits, credit)
	}
	sort.Slice(credits, func(i, j int) bool {
		return credits[i].Anime < credits[j].Anime
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(credits); err != nil {
		log.Printf("Error encoding credits: %v", err)
	}
}
