package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"flag"
	"image"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/mux"
	"github.com/orbitplanetarium/genplanet"
	"github.com/orbitplanetarium/genplanet/meshsink"
)

var (
	terrain  *genplanet.Terrain // Shared by the planet and all websocket clients
	planet   *genplanet.Planet
	planetMu sync.Mutex
	cfg      *genplanet.Config
)

var (
	configPath string = "planet.json"
	seed       int64  = 0
	addr       string = ":3333"
)

func init() {
	flag.StringVar(&configPath, "config", configPath, "JSON config file")
	flag.Int64Var(&seed, "seed", seed, "override the noise seed")
	flag.StringVar(&addr, "addr", addr, "listen address")
}

func main() {
	flag.Parse()

	// Initialize the config.
	var err error
	cfg, err = genplanet.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if seed != 0 {
		cfg.Seed = seed
		cfg.Noise.Seed = int32(seed)
	}

	// Initialize the terrain and the planet.
	terrain, err = genplanet.NewTerrain(cfg)
	if err != nil {
		log.Fatal(err)
	}
	planet = genplanet.NewPlanetWithTerrain(terrain, nil, nil)

	// Start the server.
	router := mux.NewRouter()
	router.HandleFunc("/cube/{face}.png", cubeHandler)
	router.HandleFunc("/steepness/{face}.png", steepnessHandler)
	router.HandleFunc("/heatmap/{face}.png", heatmapHandler)
	router.HandleFunc("/mesh/{lod}.obj", meshHandler)
	router.HandleFunc("/ws", wsHandler)
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("static")))
	log.Fatal(http.ListenAndServe(addr, router))
}

// faceAndCube resolves the face of the request and returns the height cube.
func faceAndCube(res http.ResponseWriter, req *http.Request) (genplanet.CubeFace, *genplanet.NoiseCube, bool) {
	face, ok := genplanet.ParseCubeFace(mux.Vars(req)["face"])
	if !ok {
		http.Error(res, "unknown face", http.StatusNotFound)
		return 0, nil, false
	}
	cube, err := terrain.NoiseCube()
	if err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return 0, nil, false
	}
	return face, cube, true
}

func cubeHandler(res http.ResponseWriter, req *http.Request) {
	face, cube, ok := faceAndCube(res, req)
	if !ok {
		return
	}
	var img image.Image = cube.GetCubeTextures()[face]
	writeImage(res, &img)
}

func steepnessHandler(res http.ResponseWriter, req *http.Request) {
	face, cube, ok := faceAndCube(res, req)
	if !ok {
		return
	}
	var img image.Image = cube.GetSteepnessTextures()[face]
	writeImage(res, &img)
}

func heatmapHandler(res http.ResponseWriter, req *http.Request) {
	face, cube, ok := faceAndCube(res, req)
	if !ok {
		return
	}
	heat, err := cube.SteepnessHeatmap(face)
	if err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}
	var img image.Image = heat
	writeImage(res, &img)
}

// writeImage writes the image to the response writer.
func writeImage(w http.ResponseWriter, img *image.Image) {
	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, *img); err != nil {
		log.Println("unable to encode image.")
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(buffer.Bytes())))
	if _, err := w.Write(buffer.Bytes()); err != nil {
		log.Println("unable to write image.")
	}
}

func meshHandler(res http.ResponseWriter, req *http.Request) {
	lod, err := strconv.ParseUint(mux.Vars(req)["lod"], 10, 8)
	if err != nil || lod > uint64(cfg.LOD.MaxLevel) {
		http.Error(res, "invalid lod", http.StatusBadRequest)
		return
	}
	planetMu.Lock()
	data, err := planet.GenerateLOD(uint8(lod))
	planetMu.Unlock()
	if err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	// GZIP the data.
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if err := data.ExportOBJ(w); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := w.Close(); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	// Set the headers and write the data.
	out := b.Bytes()
	res.Header().Set("Content-Type", "model/obj")
	res.Header().Set("Content-Encoding", "gzip")
	res.Header().Set("Content-Length", strconv.Itoa(len(out)))
	res.Header().Set("Access-Control-Allow-Origin", "*")
	res.Write(out)
}

// viewerMessage is sent by clients whenever the camera moves.
type viewerMessage struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// wsHandler streams the sections of a planet to the client, following the
// camera positions it reports.
func wsHandler(res http.ResponseWriter, req *http.Request) {
	conn, err := meshsink.Upgrade(res, req)
	if err != nil {
		log.Println("websocket upgrade:", err)
		return
	}
	defer conn.Close()

	viewer := &genplanet.ViewerState{}
	sections := genplanet.NewSectionedPlanetWithTerrain(terrain, meshsink.NewWebSocket(conn), viewer)

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	go sections.Run(ctx)

	for {
		var msg viewerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			log.Println("websocket closed:", err)
			return
		}
		viewer.Set(mgl64.Vec3{msg.X, msg.Y, msg.Z})
		sections.UpdateSections()
	}
}
