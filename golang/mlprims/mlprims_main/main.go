package main

import (
	"encoding/json"
	"flag"
	"math"
	"math/rand"
	"os"

	"github.com/joho/godotenv"
	"github.com/tarstars/mlprims/golang/mlprims/data"
	"github.com/tarstars/mlprims/golang/mlprims/ensemble"
	"github.com/tarstars/mlprims/golang/mlprims/log"
	"github.com/tarstars/mlprims/golang/mlprims/tree"
)

func handleError(err error) {
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	handleError(err)
	defer func() { handleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	handleError(decoder.Decode(out))
}

type SplitConfig struct {
	FileNameDataset      string  `json:"filename_dataset"`
	FileNameLabels       string  `json:"filename_labels"`
	FileNameWeights      string  `json:"filename_weights"`
	TestRatio            float64 `json:"test_ratio"`
	Shuffle              bool    `json:"shuffle"`
	Stratify             bool    `json:"stratify"`
	Seed                 int64   `json:"seed"`
	SamplesInRows        bool    `json:"samples_in_rows"`
	FileNameTrain        string  `json:"filename_train"`
	FileNameTest         string  `json:"filename_test"`
	FileNameTrainLabels  string  `json:"filename_train_labels"`
	FileNameTestLabels   string  `json:"filename_test_labels"`
	FileNameTrainWeights string  `json:"filename_train_weights"`
	FileNameTestWeights  string  `json:"filename_test_weights"`
}

func split(srcConfig string) {
	var splitConfig SplitConfig
	decodeConfig(srcConfig, &splitConfig)

	dataset := readDataset(splitConfig.FileNameDataset, splitConfig.SamplesInRows)
	labels := readLabels(splitConfig.FileNameLabels)
	weights := readVector(splitConfig.FileNameWeights)

	params := data.SplitParams{
		TestRatio: splitConfig.TestRatio,
		Shuffle:   splitConfig.Shuffle,
		Stratify:  splitConfig.Stratify,
		Rand:      rand.New(rand.NewSource(splitConfig.Seed)),
	}
	partition, err := data.Split(dataset, labels, weights, params)
	handleError(err)

	log.Infof("train: %d samples, test: %d samples", partition.TrainSize(), partition.TestSize())
	if splitConfig.Stratify {
		trainCounts, err := data.ClassCounts(partition.TrainLabels)
		handleError(err)
		testCounts, err := data.ClassCounts(partition.TestLabels)
		handleError(err)
		log.WithFields(log.Fields{"train": trainCounts, "test": testCounts}).Info("class counts")
	}

	writeDataset(splitConfig.FileNameTrain, partition.Train, splitConfig.SamplesInRows)
	writeDataset(splitConfig.FileNameTest, partition.Test, splitConfig.SamplesInRows)
	writeLabels(splitConfig.FileNameTrainLabels, partition.TrainLabels)
	writeLabels(splitConfig.FileNameTestLabels, partition.TestLabels)
	if partition.TrainWeights != nil {
		writeNpy(splitConfig.FileNameTrainWeights, partition.TrainWeights)
		writeNpy(splitConfig.FileNameTestWeights, partition.TestWeights)
	}
}

type EvaluateConfig struct {
	FileNameDataset  string  `json:"filename_dataset"`
	FileNameLabels   string  `json:"filename_labels"`
	FileNameWeights  string  `json:"filename_weights"`
	SamplesInRows    bool    `json:"samples_in_rows"`
	Dimensions       []int   `json:"dimensions"`
	NumCategories    []int   `json:"num_categories"`
	Fitness          string  `json:"fitness"`
	NumClasses       int     `json:"num_classes"`
	MinimumLeafSize  int     `json:"minimum_leaf_size"`
	MinimumGainSplit float64 `json:"minimum_gain_split"`
	FileNameReport   string  `json:"filename_report"`
}

type GraphConfig struct {
	EvaluateConfig
	FigureType    string `json:"figure_type"`
	FileNameGraph string `json:"filename_graph"`
}

//SplitReport is the JSON document the evaluate mode writes.
type SplitReport struct {
	Fitness string
	Found   bool
	Split   *tree.BestSplit `json:",omitempty"`
}

//searchSplit runs the categorical split search the configuration describes.
func searchSplit(evaluateConfig EvaluateConfig) *tree.BestSplit {
	dataset := readDataset(evaluateConfig.FileNameDataset, evaluateConfig.SamplesInRows)
	labels := readVector(evaluateConfig.FileNameLabels)
	weights := readVector(evaluateConfig.FileNameWeights)

	params := tree.SearchParams{
		Dimensions:       evaluateConfig.Dimensions,
		NumCategories:    evaluateConfig.NumCategories,
		MinimumLeafSize:  evaluateConfig.MinimumLeafSize,
		MinimumGainSplit: evaluateConfig.MinimumGainSplit,
	}
	if params.Dimensions == nil {
		h, _ := dataset.Dims()
		params.Dimensions = make([]int, h)
		for ind := range params.Dimensions {
			params.Dimensions[ind] = ind
		}
	}

	var bestSplit *tree.BestSplit
	var err error
	switch evaluateConfig.Fitness {
	case "gini", "information":
		classes := make([]int, len(labels))
		for ind, v := range labels {
			if v != math.Trunc(v) {
				log.Fatalf("label %v of sample %d is not a class index", v, ind)
			}
			classes[ind] = int(v)
		}
		var fitness tree.FitnessFunction[int] = tree.GiniGain[int]{}
		if evaluateConfig.Fitness == "information" {
			fitness = tree.InformationGain[int]{}
		}
		splitter := tree.AllCategoricalSplit[int]{Fitness: fitness, Mode: tree.Classification}
		bestSplit, err = tree.SelectCategoricalSplit(splitter, dataset, classes, evaluateConfig.NumClasses, weights, params)
	case "mse":
		splitter := tree.AllCategoricalSplit[float64]{Fitness: tree.MSEGain[float64]{}, Mode: tree.Regression}
		bestSplit, err = tree.SelectCategoricalSplit(splitter, dataset, labels, 0, weights, params)
	default:
		log.Fatalf("unknown fitness %q, use 'gini', 'information' or 'mse'", evaluateConfig.Fitness)
	}
	handleError(err)

	if bestSplit == nil {
		log.Infof("no dimension improves on the node")
	} else {
		log.Infof("best split: dimension %d, gain %g (parent %g)", bestSplit.Dimension, bestSplit.Gain, bestSplit.ParentGain)
	}
	return bestSplit
}

func evaluate(srcConfig string) {
	var evaluateConfig EvaluateConfig
	decodeConfig(srcConfig, &evaluateConfig)

	bestSplit := searchSplit(evaluateConfig)
	report := SplitReport{Fitness: evaluateConfig.Fitness, Found: bestSplit != nil, Split: bestSplit}

	dest, err := os.Create(evaluateConfig.FileNameReport)
	handleError(err)
	defer func() { handleError(dest.Close()) }()

	reportByteRepr, err := json.MarshalIndent(report, "", "  ")
	handleError(err)
	_, err = dest.Write(reportByteRepr)
	handleError(err)
}

func graph(srcConfig string) {
	var graphConfig GraphConfig
	decodeConfig(srcConfig, &graphConfig)

	bestSplit := searchSplit(graphConfig.EvaluateConfig)
	if bestSplit == nil {
		log.Fatalf("nothing to draw: no split found")
	}
	handleError(tree.NewStump(bestSplit).Render(graphConfig.FigureType, graphConfig.FileNameGraph))
}

type LossConfig struct {
	FileNameObserved  string `json:"filename_observed"`
	FileNamePredicted string `json:"filename_predicted"`
	FileNameGradients string `json:"filename_gradients"`
	FileNameHessians  string `json:"filename_hessians"`
	FileNameResiduals string `json:"filename_residuals"`
}

func loss(srcConfig string) {
	var lossConfig LossConfig
	decodeConfig(srcConfig, &lossConfig)

	observed := readVector(lossConfig.FileNameObserved)
	var sse ensemble.SSELoss
	predicted := readVector(lossConfig.FileNamePredicted)
	if predicted == nil {
		initial := sse.InitialPrediction(observed)
		log.Infof("initial prediction %g", initial)
		predicted = make([]float64, len(observed))
		for ind := range predicted {
			predicted[ind] = initial
		}
	}

	value, err := sse.Loss(observed, predicted)
	handleError(err)
	log.Infof("loss %g over %d samples", value, len(observed))

	gradients, err := sse.Gradients(observed, predicted)
	handleError(err)
	hessians, err := sse.Hessians(observed, predicted)
	handleError(err)
	residuals, err := sse.Residuals(observed, predicted)
	handleError(err)

	writeNpy(lossConfig.FileNameGradients, gradients)
	writeNpy(lossConfig.FileNameHessians, hessians)
	writeNpy(lossConfig.FileNameResiduals, residuals)
}

func main() {
	runMode := flag.String("mode", "split", "you can select either 'split', 'evaluate', 'graph' or 'loss' modes")
	config := flag.String("config", "mlprims_config.json", "a config file for the run of the program")
	logFile := flag.String("log", "", "write the log to `file`, rotated; stderr when empty")

	flag.Parse()

	// a missing .env file is not an error
	_ = godotenv.Load()
	log.InitLogger(*logFile, log.OrderedTextFormatter, os.Getenv("MLPRIMS_LOG_LEVEL"))

	run, ok := map[string]func(string){
		"split":    split,
		"evaluate": evaluate,
		"graph":    graph,
		"loss":     loss,
	}[*runMode]
	if !ok {
		log.Fatalf("unknown mode %q", *runMode)
	}
	run(*config)
}
