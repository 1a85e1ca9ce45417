package spec

import (
	"bytes"
	"encoding/json"

	"github.com/zintix-labs/scratchlab/errs"
	"gopkg.in/yaml.v3"
)

// GetGameSettingByYAML 由 YAML bytes 解出 GameSetting 並完成 Init。
// 開啟 KnownFields：多寫/拼錯欄位直接報錯，不默默吞掉。
func GetGameSettingByYAML(raw []byte) (*GameSetting, error) {
	gs := new(GameSetting)
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(gs); err != nil {
		return nil, errs.WrapIO(err, "parse yaml game setting failed")
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	return gs, nil
}

// GetGameSettingByJSON 由 JSON bytes 解出 GameSetting 並完成 Init。
// 與 YAML 端一致採嚴格欄位檢查。
func GetGameSettingByJSON(raw []byte) (*GameSetting, error) {
	gs := new(GameSetting)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(gs); err != nil {
		return nil, errs.WrapIO(err, "parse json game setting failed")
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	return gs, nil
}
