package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/orbitplanetarium/genplanet"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
var memprofile = flag.String("memprofile", "", "write memory profile to this file")
var configPath = flag.String("config", "planet.json", "JSON config file")
var seed = flag.Int64("seed", 0, "override the noise seed")
var lod = flag.Uint("lod", 5, "subdivision level of the exported mesh")
var objPath = flag.String("obj", "", "export the mesh as Wavefront OBJ")
var meshPath = flag.String("mesh", "", "export the mesh in binary form")
var texDir = flag.String("textures", "", "export cube textures as PNG into this directory")

var errLevelRange = errors.New("level out of range")

// levelFlag converts the -lod flag into a subdivision level no higher than max.
func levelFlag(lod uint, max uint8) (uint8, error) {
	if lod > uint(max) {
		return 0, fmt.Errorf("-lod %d: %w, maximum is %d", lod, errLevelRange, max)
	}
	return uint8(lod), nil
}

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	cfg, err := genplanet.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
		cfg.Noise.Seed = int32(*seed)
	}

	level, err := levelFlag(*lod, cfg.LOD.MaxLevel)
	if err != nil {
		log.Fatal(err)
	}

	sp, err := genplanet.NewPlanet(cfg, nil, nil)
	if err != nil {
		log.Fatal(err)
	}

	data, err := sp.GenerateLOD(level)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("generated level %d: %d vertices, %d triangles", level, len(data.Vertices), data.NumTriangles())

	if *objPath != "" {
		if err := data.ExportOBJFile(*objPath); err != nil {
			log.Fatal(err)
		}
	}
	if *meshPath != "" {
		f, err := os.Create(*meshPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := data.Encode(f); err != nil {
			log.Fatal(err)
		}
		f.Close()
	}
	if *texDir != "" {
		cube, err := sp.NoiseCube()
		if err != nil {
			log.Fatal(err)
		}
		if err := cube.ExportTextures(genplanet.PNGDirSink{Dir: *texDir}); err != nil {
			log.Fatal(err)
		}
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
		return
	}
}
