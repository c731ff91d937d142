package scenario

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
)

//go:embed scenarios/*.yaml
var builtinFS embed.FS

// ErrUnknownScenario - сценарий не найден ни в каталоге, ни среди встроенных.
var ErrUnknownScenario = errors.New("unknown scenario")

// Builtin загружает встроенный сценарий по имени.
func Builtin(name string) (*Scenario, error) {
	data, err := builtinFS.ReadFile(path.Join("scenarios", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("builtin scenario %s: %w", name, err)
	}
	if sc.Name == "" {
		sc.Name = name
	}
	return sc, nil
}

// BuiltinNames - имена встроенных сценариев по алфавиту.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "scenarios")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

// Resolve ищет сценарий сначала в dir (name.yaml), затем среди встроенных.
func Resolve(dir, name string) (*Scenario, error) {
	if dir != "" {
		p := filepath.Join(dir, name+".yaml")
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Builtin(name)
}

// GeneratedPrefix - префикс имён процедурных сценариев.
const GeneratedPrefix = "skirmish-"

// GeneratedName кодирует параметры процедурной карты в имени,
// чтобы реплей мог пересоздать её по имени и сиду.
func GeneratedName(width, height int, weather domain.Weather) string {
	return fmt.Sprintf("%s%dx%d-%s", GeneratedPrefix, width, height, weather)
}

// Named возвращает сценарий по имени: процедурный (по сиду) или из dir / встроенных.
func Named(dir, name string, seed int64) (*Scenario, error) {
	if !strings.HasPrefix(name, GeneratedPrefix) {
		return Resolve(dir, name)
	}

	var width, height int
	parts := strings.SplitN(strings.TrimPrefix(name, GeneratedPrefix), "-", 2)
	if _, err := fmt.Sscanf(parts[0], "%dx%d", &width, &height); err != nil {
		return nil, fmt.Errorf("%w: bad generated name %q: %v", ErrUnknownScenario, name, err)
	}
	weather := domain.WeatherClear
	if len(parts) == 2 {
		weather = domain.ParseWeather(parts[1])
	}

	sc := Generate(rand.New(rand.NewSource(seed)), width, height)
	sc.Weather = weather
	sc.Name = GeneratedName(sc.Map.Width, sc.Map.Height, weather)
	return sc, nil
}
